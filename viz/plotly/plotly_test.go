package plotly

import (
	"encoding/json"
	"testing"

	"github.com/Comcast/vizcrew/dataset"
)

func iris() *dataset.Frame {
	return dataset.FromRecords([]map[string]interface{}{
		{"sepal_length": 5.1, "sepal_width": 3.5, "petal_length": 1.4, "petal_width": 0.2, "species": "setosa"},
		{"sepal_length": 7.0, "sepal_width": 3.2, "petal_length": 4.7, "petal_width": 1.4, "species": "versicolor"},
		{"sepal_length": 6.3, "sepal_width": 3.3, "petal_length": 6.0, "petal_width": 2.5, "species": "virginica"},
		{"sepal_length": 4.9, "sepal_width": 3.0, "petal_length": 1.4, "petal_width": 0.2, "species": "setosa"},
	})
}

func TestBarChart(t *testing.T) {
	fig := NewFigure(Bar([]int{1, 2, 3}, []int{1, 3, 2})).Titled("A Bar Chart")
	js, err := json.Marshal(fig)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"data":[{"type":"bar","x":[1,2,3],"y":[1,3,2]}],"layout":{"title":{"text":"A Bar Chart"}}}`
	if string(js) != want {
		t.Fatal(string(js))
	}
}

func TestScatter3D(t *testing.T) {
	fig := Scatter3D(iris(), "sepal_length", "sepal_width", "petal_width", "petal_length", "species")
	if len(fig.Data) != 3 {
		t.Fatal(len(fig.Data))
	}
	setosa := fig.Data[0]
	if setosa["name"] != "setosa" {
		t.Fatal(setosa["name"])
	}
	if xs := setosa["x"].([]float64); len(xs) != 2 {
		t.Fatal(xs)
	}
	ca := fig.Layout["coloraxis"].(map[string]interface{})
	if ca["cmin"] != 1.4 || ca["cmax"] != 6.0 {
		t.Fatal(ca)
	}
}

func TestScatterMatrix(t *testing.T) {
	dims := []string{"sepal_width", "sepal_length", "petal_width", "petal_length"}
	fig := ScatterMatrix(iris(), dims, "species")
	if len(fig.Data) != 3 {
		t.Fatal(len(fig.Data))
	}
	ds := fig.Data[1]["dimensions"].([]map[string]interface{})
	if len(ds) != 4 || ds[0]["label"] != "sepal_width" {
		t.Fatal(ds)
	}
}

func TestEmptyFrame(t *testing.T) {
	fig := ScatterMatrix(dataset.NewFrame("species"), []string{"a"}, "species")
	js, err := json.Marshal(fig)
	if err != nil {
		t.Fatal(err)
	}
	if string(js) != `{"data":[],"layout":{"dragmode":"select"}}` {
		t.Fatal(string(js))
	}
}

func TestTernaryClosed(t *testing.T) {
	a := []float64{1, 2, 3}
	tr := Ternary("region", a, []float64{4, 5, 6}, []float64{7, 8, 9}, "#8dd3c7")
	got := tr["a"].([]float64)
	if len(got) != 4 || got[3] != 1 {
		t.Fatal(got)
	}
	if len(a) != 3 {
		t.Fatal(a)
	}
	if c := tr["c"].([]float64); c[3] != 7 {
		t.Fatal(c)
	}

	tr = Ternary("empty", nil, nil, nil, "#fff")
	if got := tr["a"].([]float64); len(got) != 0 {
		t.Fatal(got)
	}
}

func TestSelectable(t *testing.T) {
	js, err := json.Marshal(Selectable([]float64{1, 2}, []float64{3, 4}, nil))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(js, &m); err != nil {
		t.Fatal(err)
	}
	if sel, is := m["selectedpoints"].([]interface{}); !is || len(sel) != 0 {
		t.Fatal(m["selectedpoints"])
	}
}
