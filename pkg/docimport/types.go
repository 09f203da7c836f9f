package docimport

// Format is a supported upload format, keyed by file extension.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
	FormatDocx Format = "docx"
	FormatDoc  Format = "doc"
)

// RawUpload is one uploaded file as received from the client.
type RawUpload struct {
	FileName string
	Data     []byte
}

// CanonicalDocument is the normalized rich text of one upload. HTML only uses
// the canonical tag vocabulary (see Canonicalize).
type CanonicalDocument struct {
	SuggestedTitle string `json:"suggestedTitle"`
	HTML           string `json:"html"`
}
