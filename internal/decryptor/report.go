package decryptor

// Kind names what failed.
type Kind string

const (
	KindVault Kind = "vault"
	KindField Kind = "field"
	KindFile  Kind = "file"
	KindWrite Kind = "write"
)

// Failure is one item that could not be recovered. Reason is Err rendered
// for JSON; it never contains key material or plaintext.
type Failure struct {
	Vault  string `json:"vault"`
	Entry  string `json:"entry,omitempty"`
	Kind   Kind   `json:"kind"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"error"`
	Err    error  `json:"-"`
}

// Report accumulates per-item outcomes of a run. It is not safe for
// concurrent use.
type Report struct {
	Fields   int       `json:"fields"`
	Files    int       `json:"files"`
	Failures []Failure `json:"failures"`
}

func NewReport() *Report {
	return &Report{Failures: []Failure{}}
}

// Add records a failure.
func (r *Report) Add(f Failure) {
	if f.Err != nil && f.Reason == "" {
		f.Reason = f.Err.Error()
	}
	r.Failures = append(r.Failures, f)
}

func (r *Report) countField() { r.Fields++ }

func (r *Report) countFile() { r.Files++ }

// OK reports whether nothing failed.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// ByKind returns the failures of one kind.
func (r *Report) ByKind(kind Kind) []Failure {
	var out []Failure
	for _, f := range r.Failures {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
