// Package settings owns the canonical settings document: defaults,
// sanitization of partial updates, and the PATCH/PUT write paths.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
)

const (
	Collection        = "settings"
	HistoryCollection = "settings_history"
	CanonicalID       = "current"
)

// Settings is the typed view of the canonical document.
type Settings struct {
	Theme              string `json:"theme"`
	SidebarCollapsed   bool   `json:"sidebarCollapsed"`
	EmailNotifications bool   `json:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications"`
	InvoiceReminders   bool   `json:"invoiceReminders"`
	TwoFactorAuth      bool   `json:"twoFactorAuth"`

	CompanyName    string `json:"companyName"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyAddress string `json:"companyAddress"`
	CompanyGST     string `json:"companyGST"`
	CompanyPAN     string `json:"companyPAN"`
	CompanyMSME    string `json:"companyMSME"`

	DefaultTaxRate      float64 `json:"defaultTaxRate"`
	DefaultPaymentTerms float64 `json:"defaultPaymentTerms"`
	DefaultCurrency     string  `json:"defaultCurrency"`
	InvoicePrefix       string  `json:"invoicePrefix"`

	SessionTimeout float64 `json:"sessionTimeout"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Defaults returns the hard-coded settings used for a fresh document.
func Defaults() Settings {
	return Settings{
		Theme:               "light",
		EmailNotifications:  true,
		InvoiceReminders:    true,
		DefaultTaxRate:      18,
		DefaultPaymentTerms: 30,
		DefaultCurrency:     "INR",
		InvoicePrefix:       "INV",
		SessionTimeout:      60,
	}
}

func defaultsDocument() store.Document {
	doc, err := store.Encode(Defaults())
	if err != nil {
		panic(fmt.Sprintf("settings: encode defaults: %v", err))
	}
	return doc
}

// Service reads and writes the canonical settings document.
type Service struct {
	store store.Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewService constructs a Service. A nil clock means time.Now.
func NewService(s store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: s, now: now, log: logger.WithComponent("settings")}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(store.TimeLayout)
}

// Get returns the canonical document, creating it from defaults if missing.
func (s *Service) Get(ctx context.Context) (store.Document, error) {
	doc, err := s.store.Get(ctx, Collection, CanonicalID)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	doc = defaultsDocument()
	ts := s.timestamp()
	doc["createdAt"] = ts
	doc["updatedAt"] = ts
	s.log.Info().Msg("creating canonical settings document from defaults")
	return s.store.Set(ctx, Collection, CanonicalID, doc)
}

// Current returns the canonical document as a typed Settings value.
func (s *Service) Current(ctx context.Context) (Settings, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	current := Defaults()
	if err := store.Decode(doc, &current); err != nil {
		return Settings{}, err
	}
	return current, nil
}

// Patch merges the sanitized fields of input onto the canonical document.
func (s *Service) Patch(ctx context.Context, input map[string]any) (store.Document, error) {
	if _, err := s.Get(ctx); err != nil {
		return nil, err
	}
	patch := store.Document(SanitizePatch(input))
	patch["updatedAt"] = s.timestamp()

	doc, err := s.store.Merge(ctx, Collection, CanonicalID, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, doc)
	return doc, nil
}

// Replace overwrites the canonical document with defaults plus the sanitized
// fields of input, keeping the original createdAt.
func (s *Service) Replace(ctx context.Context, input map[string]any) (store.Document, error) {
	ts := s.timestamp()
	createdAt := ts
	existing, err := s.store.Get(ctx, Collection, CanonicalID)
	switch {
	case err == nil:
		if c, ok := existing["createdAt"].(string); ok && c != "" {
			createdAt = c
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	doc := defaultsDocument()
	for k, v := range SanitizePatch(input) {
		doc[k] = v
	}
	doc["createdAt"] = createdAt
	doc["updatedAt"] = ts

	saved, err := s.store.Set(ctx, Collection, CanonicalID, doc)
	if err != nil {
		return nil, err
	}
	s.record(ctx, saved)
	return saved, nil
}

// History returns up to limit snapshots of past writes, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]store.Document, error) {
	return s.store.List(ctx, HistoryCollection, store.Query{OrderBy: "savedAt", Descending: true, Limit: limit})
}

// record appends a snapshot of doc to the history collection. Failures are
// logged and do not fail the write.
func (s *Service) record(ctx context.Context, doc store.Document) {
	snapshot := doc.Clone()
	delete(snapshot, "id")
	snapshot["settingsId"] = CanonicalID
	snapshot["savedAt"] = doc["updatedAt"]
	if _, err := s.store.Create(ctx, HistoryCollection, snapshot); err != nil {
		s.log.Warn().Err(err).Msg("unable to record settings history")
	}
}
