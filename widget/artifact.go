package widget

// Artifact kinds understood by the client.
const (
	KindDeck     = "deck"
	KindVega     = "vega"
	KindPlotly   = "plotly"
	KindImage    = "image"
	KindMarkdown = "markdown"
	KindScene    = "scene"
)

// Artifact is what a View displays: a kind that tells the client
// which renderer to use and a JSON-serializable spec for that
// renderer.
type Artifact struct {
	Kind string      `json:"kind"`
	Spec interface{} `json:"spec"`
}

func NewArtifact(kind string, spec interface{}) *Artifact {
	return &Artifact{
		Kind: kind,
		Spec: spec,
	}
}

// Empty returns an artifact that clears a view of the given kind.
func Empty(kind string) *Artifact {
	return &Artifact{
		Kind: kind,
		Spec: map[string]interface{}{},
	}
}
