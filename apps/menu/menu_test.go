package menu

import (
	"testing"

	"github.com/Comcast/vizcrew/util/testutil"
)

func TestClick(t *testing.T) {
	f, err := New(testutil.Env(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	h := testutil.Start(t, f, nil)
	h.NoErrors(h.Initial)

	r := h.Trigger("print_item", "two")
	h.NoErrors(r)
	if s := h.Session.Store.GetString("last_clicked"); s != "two" {
		t.Fatal(s)
	}
	var patched bool
	for _, p := range r.Patches {
		if p.Value == "Clicked on two" {
			patched = true
		}
	}
	if !patched {
		t.Fatal(testutil.JS(r.Patches))
	}

	if r := h.Trigger("print_item"); len(r.Errors) != 1 {
		t.Fatal(r.Errors)
	}
	if r := h.Trigger("tacos"); len(r.Errors) != 1 {
		t.Fatal(r.Errors)
	}
}
