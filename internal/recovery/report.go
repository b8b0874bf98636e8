package recovery

import (
	"time"

	"github.com/dmitrijs2005/vaultrecovery/internal/decryptor"
)

// Vault outcomes.
const (
	StatusRecovered = "recovered"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// Report summarises a run. It names items, never values.
type Report struct {
	RunID      string         `json:"run_id"`
	User       string         `json:"user"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Vaults     []*VaultReport `json:"vaults"`
}

type VaultReport struct {
	UUID     string              `json:"uuid"`
	Name     string              `json:"name"`
	Status   string              `json:"status"`
	Fields   int                 `json:"fields"`
	Files    int                 `json:"files"`
	Failures []decryptor.Failure `json:"failures"`
	Outputs  []string            `json:"outputs,omitempty"`
	Archive  string              `json:"archive,omitempty"`
}

func newVaultReport(uuid, name string) *VaultReport {
	return &VaultReport{UUID: uuid, Name: name, Status: StatusRecovered, Failures: []decryptor.Failure{}}
}

// absorb copies the decryption outcome of the vault.
func (v *VaultReport) absorb(r *decryptor.Report) {
	v.Fields = r.Fields
	v.Files = r.Files
	v.Failures = append(v.Failures, r.Failures...)
	if len(r.Failures) > 0 {
		v.Status = StatusPartial
	}
}

func (v *VaultReport) fail(f decryptor.Failure) {
	if f.Err != nil && f.Reason == "" {
		f.Reason = f.Err.Error()
	}
	v.Failures = append(v.Failures, f)
	if v.Status == StatusRecovered {
		v.Status = StatusPartial
	}
}

// Vault returns the report of uuid or nil.
func (r *Report) Vault(uuid string) *VaultReport {
	for _, v := range r.Vaults {
		if v.UUID == uuid {
			return v
		}
	}
	return nil
}

// OK reports whether every vault was recovered without failures.
func (r *Report) OK() bool {
	for _, v := range r.Vaults {
		if v.Status != StatusRecovered {
			return false
		}
	}
	return true
}
