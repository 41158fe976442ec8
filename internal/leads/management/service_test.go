package management

import (
	"context"
	"errors"
	"testing"

	"rewards_backend/internal/leads/repository"
	"rewards_backend/internal/leads/transport"
	"rewards_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads    map[uuid.UUID]repository.Lead
	byEmail  map[string]uuid.UUID
	statuses []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:   make(map[uuid.UUID]repository.Lead),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	if _, exists := f.byEmail[params.Email]; exists {
		return repository.Lead{}, repository.ErrDuplicateEmail
	}
	lead := repository.Lead{
		ID:           uuid.New(),
		Email:        params.Email,
		Name:         params.Name,
		Phone:        params.Phone,
		Source:       params.Source,
		Status:       repository.StatusNew,
		ReferralCode: params.ReferralCode,
		DiscountCode: params.DiscountCode,
	}
	f.leads[lead.ID] = lead
	f.byEmail[params.Email] = lead.ID
	return lead, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) List(ctx context.Context, filter repository.ListFilter) ([]repository.Lead, error) {
	var out []repository.Lead
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeRepo) TopByScore(ctx context.Context, limit int) ([]repository.Lead, error) {
	return f.List(ctx, repository.ListFilter{})
}

func (f *fakeRepo) GetConversionStats(ctx context.Context) (repository.ConversionStats, error) {
	stats := repository.ConversionStats{}
	for _, l := range f.leads {
		stats.Total++
		if l.Status == repository.StatusConverted {
			stats.Converted++
		}
	}
	return stats, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Status = status
	f.leads[id] = lead
	f.statuses = append(f.statuses, status)
	return lead, nil
}

func TestJoinGeneratesCodes(t *testing.T) {
	svc := New(newFakeRepo(), nil)

	lead, err := svc.Join(context.Background(), transport.JoinRequest{Email: "new@example.com", Name: "Sam"})
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}
	if lead.ReferralCode == "" || lead.DiscountCode == "" {
		t.Fatalf("expected generated codes, got %q / %q", lead.ReferralCode, lead.DiscountCode)
	}
	if lead.Source != "waiting_list" {
		t.Fatalf("source = %q, want waiting_list default", lead.Source)
	}
	if lead.Status != repository.StatusNew {
		t.Fatalf("status = %q, want new", lead.Status)
	}
}

func TestJoinDuplicateEmail(t *testing.T) {
	svc := New(newFakeRepo(), nil)
	req := transport.JoinRequest{Email: "dup@example.com"}

	if _, err := svc.Join(context.Background(), req); err != nil {
		t.Fatalf("first Join() error: %v", err)
	}

	_, err := svc.Join(context.Background(), req)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil)

	lead, err := svc.Join(context.Background(), transport.JoinRequest{Email: "pipeline@example.com"})
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	// Forward transitions succeed.
	if _, err := svc.UpdateStatus(context.Background(), lead.ID, repository.StatusContacted); err != nil {
		t.Fatalf("new -> contacted failed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), lead.ID, repository.StatusConverted); err != nil {
		t.Fatalf("contacted -> converted failed: %v", err)
	}

	// No way back, and no skipping detected after the fact.
	_, err = svc.UpdateStatus(context.Background(), lead.ID, repository.StatusContacted)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("converted -> contacted err = %v, want validation", err)
	}
}

func TestUpdateStatusRejectsSkip(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil)

	lead, err := svc.Join(context.Background(), transport.JoinRequest{Email: "skip@example.com"})
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), lead.ID, repository.StatusConverted)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("new -> converted err = %v, want validation", err)
	}
}

func TestUpdateStatusUnknownLead(t *testing.T) {
	svc := New(newFakeRepo(), nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), repository.StatusContacted)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestConversionRate(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"} {
		if _, err := svc.Join(context.Background(), transport.JoinRequest{Email: email}); err != nil {
			t.Fatalf("Join() error: %v", err)
		}
	}
	// Convert one of four.
	id := repo.byEmail["a@x.com"]
	lead := repo.leads[id]
	lead.Status = repository.StatusConverted
	repo.leads[id] = lead

	resp, err := svc.ConversionRate(context.Background())
	if err != nil {
		t.Fatalf("ConversionRate() error: %v", err)
	}
	if resp.TotalLeads != 4 || resp.ConvertedLeads != 1 {
		t.Fatalf("stats = %+v", resp)
	}
	if resp.ConversionRate != 25 {
		t.Fatalf("rate = %v, want 25", resp.ConversionRate)
	}
}

func TestGenerateCodeShape(t *testing.T) {
	code := generateCode("REF")
	if len(code) != len("REF-")+8 {
		t.Fatalf("code %q has unexpected length", code)
	}
	if code[:4] != "REF-" {
		t.Fatalf("code %q missing prefix", code)
	}
}
