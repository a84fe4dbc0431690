/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder remembers what a handler saw.
type recorder struct {
	calls []Bindings
}

func (r *recorder) handler(ctx context.Context, st *Store, bs Bindings) error {
	r.calls = append(r.calls, bs.Copy())
	return nil
}

func TestSetTwice(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)
	st.Init(Bindings{"hour": 0})

	r := &recorder{}
	if _, err := st.Watch("hour", []string{"hour"}, r.handler); err != nil {
		t.Fatal(err)
	}

	if err := st.Set(ctx, "hour", 3); err != nil {
		t.Fatal(err)
	}
	if err := st.Set(ctx, "hour", 10); err != nil {
		t.Fatal(err)
	}

	want := []Bindings{
		{"hour": 3},
		{"hour": 10},
	}
	if diff := cmp.Diff(want, r.calls); diff != "" {
		t.Fatal(diff)
	}
	if n := st.GetInt("hour"); n != 10 {
		t.Fatal(n)
	}
}

func TestSameValueStillNotifies(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)
	r := &recorder{}
	st.Watch("x", []string{"x"}, r.handler)
	st.Set(ctx, "x", 1)
	st.Set(ctx, "x", 1)
	if len(r.calls) != 2 {
		t.Fatal(len(r.calls))
	}
}

func TestUnrelatedKey(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)
	st.Init(Bindings{"A": 0, "B": 0, "C": 0})

	r := &recorder{}
	st.Watch("ab", []string{"A", "B"}, r.handler)

	if err := st.Set(ctx, "C", "y"); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 0 {
		t.Fatal(r.calls)
	}
	if err := st.Set(ctx, "A", "x"); err != nil {
		t.Fatal(err)
	}
	want := []Bindings{{"A": "x", "B": 0}}
	if diff := cmp.Diff(want, r.calls); diff != "" {
		t.Fatal(diff)
	}
}

func TestOncePerBatch(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)

	var order []string
	mk := func(name string) Handler {
		return func(ctx context.Context, st *Store, bs Bindings) error {
			order = append(order, name)
			return nil
		}
	}
	st.Watch("first", []string{"a", "b"}, mk("first"))
	st.Watch("second", []string{"b", "c"}, mk("second"))
	st.Watch("third", []string{"z"}, mk("third"))

	if err := st.Update(ctx, Bindings{"a": 1, "b": 2, "c": 3}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Fatal(diff)
	}
}

func TestUnknownKeys(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		policy  UnknownKeys
		wantErr bool
		wantHas bool
	}{
		{"declare", DeclareUnknown, false, true},
		{"ignore", IgnoreUnknown, false, false},
		{"reject", RejectUnknown, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := NewStore(&StoreConf{Unknown: tc.policy}, nil)
			st.Init(Bindings{"known": 1})

			err := st.Update(ctx, Bindings{"known": 2, "mystery": 3})
			if tc.wantErr {
				var uk *UnknownKey
				if !errors.As(err, &uk) {
					t.Fatalf("wanted an UnknownKey, got %v", err)
				}
				if uk.Key != "mystery" {
					t.Fatal(uk.Key)
				}
				// Nothing committed.
				if n := st.GetInt("known"); n != 1 {
					t.Fatal(n)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if st.Has("mystery") != tc.wantHas {
				t.Fatal(tc.wantHas)
			}
			if n := st.GetInt("known"); n != 2 {
				t.Fatal(n)
			}
		})
	}
}

func TestHandlerFailureNoRollback(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)

	var reported []error
	st.OnError = func(err error) {
		reported = append(reported, err)
	}

	st.Watch("broken", []string{"k"}, func(ctx context.Context, st *Store, bs Bindings) error {
		return errors.New("tacos unavailable")
	})
	st.Watch("panicky", []string{"k"}, func(ctx context.Context, st *Store, bs Bindings) error {
		var m map[string]int
		m["boom"]++
		return nil
	})
	r := &recorder{}
	st.Watch("fine", []string{"k"}, r.handler)

	if err := st.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}

	if len(reported) != 2 {
		t.Fatal(reported)
	}
	var he *HandlerError
	if !errors.As(reported[0], &he) || he.Name != "broken" || he.Panic {
		t.Fatal(reported[0])
	}
	if !errors.As(reported[1], &he) || he.Name != "panicky" || !he.Panic {
		t.Fatal(reported[1])
	}
	if len(r.calls) != 1 {
		t.Fatal(r.calls)
	}
	if s := st.GetString("k"); s != "v" {
		t.Fatal(s)
	}
}

func TestNestedSet(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)

	st.Watch("double", []string{"x"}, func(ctx context.Context, st *Store, bs Bindings) error {
		n, _ := bs.Int("x")
		return st.Set(ctx, "y", 2*n)
	})
	r := &recorder{}
	st.Watch("y", []string{"y"}, r.handler)

	if err := st.Set(ctx, "x", 21); err != nil {
		t.Fatal(err)
	}
	// Synchronous: the nested handler already ran.
	if diff := cmp.Diff([]Bindings{{"y": 42}}, r.calls); diff != "" {
		t.Fatal(diff)
	}
}

func TestTooDeep(t *testing.T) {
	ctx := context.Background()
	st := NewStore(&StoreConf{MaxDepth: 5}, nil)

	var reported []error
	st.OnError = func(err error) {
		reported = append(reported, err)
	}

	st.Watch("loop", []string{"n"}, func(ctx context.Context, st *Store, bs Bindings) error {
		n, _ := bs.Int("n")
		return st.Set(ctx, "n", n+1)
	})

	if err := st.Set(ctx, "n", 0); err != nil {
		t.Fatal(err)
	}
	if n := st.GetInt("n"); n != 4 {
		t.Fatal(n)
	}
	if len(reported) == 0 {
		t.Fatal("expected a report")
	}
	var td *TooDeep
	if !errors.As(reported[0], &td) {
		t.Fatal(reported[0])
	}
}

func TestWatchNow(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)
	st.Init(Bindings{"resolution": 6})

	r := &recorder{}
	if _, err := st.WatchNow(ctx, "res", []string{"resolution"}, r.handler); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Bindings{{"resolution": 6}}, r.calls); diff != "" {
		t.Fatal(diff)
	}

	q := &recorder{}
	st.Watch("quiet", []string{"resolution"}, q.handler)
	if len(q.calls) != 0 {
		t.Fatal("Watch invoked the handler")
	}
}

func TestKeySpec(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)
	st.Declare("hour", &KeySpec{
		PrimitiveType: "number",
		Default:       10,
	})
	st.Declare("title", &KeySpec{
		PrimitiveType: "string",
		Advisory:      true,
	})

	if n := st.GetInt("hour"); n != 10 {
		t.Fatal(n)
	}
	var bv *BadValue
	if err := st.Set(ctx, "hour", "ten"); !errors.As(err, &bv) {
		t.Fatal(err)
	}
	if err := st.Set(ctx, "title", 42); err != nil {
		t.Fatal(err)
	}
	if n := st.GetInt("title"); n != 42 {
		t.Fatal(n)
	}
}

func TestDirtyAndTakeChanged(t *testing.T) {
	ctx := context.Background()
	st := NewStore(nil, nil)
	st.Init(Bindings{"items": []interface{}{"a"}, "other": 1})
	st.TakeChanged()

	r := &recorder{}
	st.Watch("items", []string{"items"}, r.handler)

	if err := st.Dirty(ctx, "items", "nope"); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 1 {
		t.Fatal(r.calls)
	}
	st.Set(ctx, "other", 2)

	want := []Change{
		{Key: "items", Value: []interface{}{"a"}, Dirty: true},
		{Key: "other", Value: 2},
	}
	if diff := cmp.Diff(want, st.TakeChanged()); diff != "" {
		t.Fatal(diff)
	}
	if got := st.TakeChanged(); len(got) != 0 {
		t.Fatal(got)
	}
}

func TestRegistrations(t *testing.T) {
	st := NewStore(nil, nil)
	st.Watch("a", []string{"x"}, func(context.Context, *Store, Bindings) error { return nil })
	st.Watch("b", []string{"x", "y"}, func(context.Context, *Store, Bindings) error { return nil })
	if _, err := st.Watch("c", nil, nil); err != ErrNoHandler {
		t.Fatal(err)
	}

	want := []Registration{
		{ID: 1, Name: "a", Keys: []string{"x"}},
		{ID: 2, Name: "b", Keys: []string{"x", "y"}},
	}
	if diff := cmp.Diff(want, st.Registrations(), cmp.AllowUnexported(Registration{})); diff != "" {
		t.Fatal(diff)
	}
}
