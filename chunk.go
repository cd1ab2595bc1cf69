package relay

// Chunk is one ordered part of a model response produced by a Splitter.
// Index starts at 1. Text carries the part-numbering prefix when the response
// was split; Body is the same text without it.
type Chunk struct {
	Index   int
	Text    string
	Body    string
	IsFinal bool
}

// Block is the classification of a chunk of text.
type Block struct {
	IsCode    bool
	Language  string // human-readable language tag, e.g. "Python"
	Extension string // canonical file extension without the dot
	Body      string // extracted code, or the input text when no fence exists
}

// Display is a rendering record handed to the Presenter for each chunk.
type Display struct {
	Chunk         Chunk
	Text          string // text to show
	IsCode        bool
	Language      string
	Code          string // code body for copy and download actions
	AllowCopy     bool
	AllowDownload bool
	Extension     string
}

// Splitter divides a response into ordered chunks.
type Splitter interface {
	Split(text string) []Chunk
}

// Classifier decides whether text should be rendered as code.
type Classifier interface {
	Classify(text string) Block
}
