package types

// ContentRef points at an object in the storage bucket.
type ContentRef struct {
	Path     string `json:"path"`
	FileName string `json:"file_name"`
}

// ContentHandle is the id the backend hands back after processing a resource.
// The empty handle disables actions that depend on it.
type ContentHandle string

func (h ContentHandle) Valid() bool { return h != "" }

type DocumentProcessRequest struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
}

type DocumentProcessResponse struct {
	DocumentID string `json:"document_id"`
}
