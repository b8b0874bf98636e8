// Package recovery implements the operations of the tool on top of the
// extractor, keyring, decryptor and package formats: info, export, decrypt,
// encrypt and recover.
package recovery

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/vaultrecovery/internal/archive"
	"github.com/dmitrijs2005/vaultrecovery/internal/decryptor"
	"github.com/dmitrijs2005/vaultrecovery/internal/logging"
)

var (
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrArchiveNeedsPackage = errors.New("archive needs an encrypted package password")
	ErrNoUploader          = errors.New("archive storage is not configured")
)

type Service struct {
	log      logging.Logger
	dec      *decryptor.Decryptor
	uploader archive.Uploader
	now      func() time.Time
}

type Option func(*Service)

// WithUploader enables archiving of encrypted packages.
func WithUploader(u archive.Uploader) Option {
	return func(s *Service) { s.uploader = u }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(log logging.Logger, opts ...Option) *Service {
	s := &Service{
		log: log,
		dec: decryptor.New(log),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
