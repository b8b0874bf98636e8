package models

// PlainVault is a decrypted vault with its metadata.
type PlainVault struct {
	ID        int64         `json:"id"`
	UUID      string        `json:"uuid"`
	Name      string        `json:"name"`
	Note      string        `json:"note"`
	UserID    int64         `json:"user_id"`
	CreatedAt Timestamp     `json:"created_at"`
	UpdatedAt Timestamp     `json:"updated_at"`
	Entries   []*PlainEntry `json:"entries"`
}

// PlainEntry is a decrypted entry. The same shape is used by raw documents.
type PlainEntry struct {
	ID           int64         `json:"id"`
	UUID         string        `json:"uuid"`
	CompleteName string        `json:"complete_name"`
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	Note         string        `json:"note"`
	CreatedAt    Timestamp     `json:"created_at"`
	UpdatedAt    Timestamp     `json:"updated_at"`
	Fields       []*PlainField `json:"fields"`
	Files        []*PlainFile  `json:"files"`
	Entries      []*PlainEntry `json:"entries"`
}

// PlainField carries the decrypted text. Error is set, and Value empty, when
// the field could not be decrypted.
type PlainField struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	Error     string    `json:"error,omitempty"`
}

// Failed reports whether the field carries a decryption failure marker.
func (f *PlainField) Failed() bool { return f.Error != "" }

// PlainFile carries the decrypted content, base64 encoded in JSON.
type PlainFile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Value     []byte    `json:"value"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	Error     string    `json:"error,omitempty"`
}

// Failed reports whether the file carries a decryption failure marker.
func (f *PlainFile) Failed() bool { return f.Error != "" }

// WalkPlain calls fn for every decrypted entry depth first.
func WalkPlain(entries []*PlainEntry, fn func(*PlainEntry)) {
	for _, e := range entries {
		fn(e)
		WalkPlain(e.Entries, fn)
	}
}
