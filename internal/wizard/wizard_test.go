package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"printease-system/internal/database/models"
	"printease-system/internal/pricing"
)

func decimalFromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func fixtureService() models.Service {
	return models.Service{
		ID:               1,
		Name:             "Document Printing",
		BasePricePerPage: "2",
		Status:           models.ServiceStatusActive,
		PrintTypes: models.OptionList{
			{Value: "bw"},
			{Value: "color", PricePerPage: "5"},
		},
		PaperSizes: models.OptionList{
			{Value: "a4"},
		},
		PrintSides: models.OptionList{
			{Value: "single-side"},
			{Value: "double-side"},
		},
		BindingOptions: models.BindingOptionList{
			{PricingOption: models.PricingOption{Value: "none"}},
			{PricingOption: models.PricingOption{Value: "spiral", PricePerCopy: "50"}, MinPages: 20},
		},
	}
}

func posterService() models.Service {
	return models.Service{
		ID:               2,
		Name:             "Poster Printing",
		BasePricePerPage: "40",
		Status:           models.ServiceStatusActive,
		PrintTypes: models.OptionList{
			{Value: "color"},
		},
		PaperSizes: models.OptionList{
			{Value: "a2"},
		},
	}
}

func readyItem(t *testing.T, s *Session, service models.Service, name string, pages int) string {
	t.Helper()
	id := s.AddItem(service, name, "https://files.test/"+name, nil)
	if !s.CompleteDetection(id, pages, nil) {
		t.Fatalf("CompleteDetection(%s) applied to missing item", id)
	}
	return id
}

func TestAdvance_UploadGuardBlocksUnreadyFiles(t *testing.T) {
	s := NewSession("s1")

	if err := s.Advance(); err == nil {
		t.Fatalf("advance with no items should fail")
	}

	id := s.AddItem(fixtureService(), "thesis.pdf", "https://files.test/thesis.pdf", nil)
	if err := s.Advance(); err == nil {
		t.Fatalf("advance with a processing item should fail")
	}

	s.CompleteDetection(id, 0, errors.New("unsupported file format"))
	if err := s.Advance(); err == nil {
		t.Fatalf("advance with an errored item should fail")
	}

	items := s.Items()
	if items[0].FileStatus != FileStatusError || items[0].FileError == "" {
		t.Fatalf("errored item should keep its message: %+v", items[0])
	}

	// The user removes the broken file and uploads a good one.
	s.RemoveItem(id)
	readyItem(t, s, fixtureService(), "thesis.pdf", 30)
	if err := s.Advance(); err != nil {
		t.Fatalf("advance with all files ready: %v", err)
	}
	if s.Step != StepConfigure {
		t.Fatalf("step = %s, want %s", s.Step, StepConfigure)
	}
}

func TestAdvance_ConfigureGuardRequiresCompleteConfiguration(t *testing.T) {
	s := NewSession("s1")
	id := readyItem(t, s, fixtureService(), "notes.pdf", 10)
	if err := s.Advance(); err != nil {
		t.Fatalf("advance to configure: %v", err)
	}

	// Default configuration has no print type or paper size selected.
	if err := s.Advance(); err == nil {
		t.Fatalf("advance with unconfigured item should fail")
	}

	if _, err := s.Configure(id, pricing.Configuration{
		PrintType: "color",
		PaperSize: "a4",
		Copies:    0,
	}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := s.Advance(); err == nil {
		t.Fatalf("advance with copies < 1 should fail")
	}

	if _, err := s.Configure(id, pricing.Configuration{
		PrintType: "color",
		PaperSize: "a4",
		Copies:    2,
	}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance to review: %v", err)
	}
	if s.Step != StepReview {
		t.Fatalf("step = %s, want %s", s.Step, StepReview)
	}
	if err := s.Advance(); !errors.Is(err, ErrAlreadyAtFinal) {
		t.Fatalf("advance past review = %v, want ErrAlreadyAtFinal", err)
	}
}

func TestBack_OnlyToEarlierSteps(t *testing.T) {
	s := NewSession("s1")
	readyItem(t, s, fixtureService(), "doc.pdf", 5)
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if err := s.Back(StepReview); err == nil {
		t.Fatalf("forward jump via Back should fail")
	}
	if err := s.Back(StepUpload); err != nil {
		t.Fatalf("back to upload: %v", err)
	}
	if s.Step != StepUpload {
		t.Fatalf("step = %s, want %s", s.Step, StepUpload)
	}
}

func TestSession_StepReadsAreSynchronized(t *testing.T) {
	s := NewSession("s1")
	readyItem(t, s, fixtureService(), "doc.pdf", 5)

	// A status poll rendering the session races user navigation; run both
	// loops so the race detector can observe any unguarded access.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_ = s.CurrentStep()
			_ = s.Items()
			_ = s.Subtotal()
		}
	}()
	for i := 0; i < 500; i++ {
		_ = s.Advance()
		_ = s.Back(StepUpload)
	}
	<-done

	if got := s.CurrentStep(); got != StepUpload && got != StepConfigure {
		t.Fatalf("step = %q after navigation loop", got)
	}
}

func TestCompleteDetection_AfterRemovalIsDropped(t *testing.T) {
	s := NewSession("s1")
	id := s.AddItem(fixtureService(), "big.pdf", "https://files.test/big.pdf", nil)

	if !s.RemoveItem(id) {
		t.Fatalf("remove: item missing")
	}

	// Detection finishes after the user already removed the file.
	if s.CompleteDetection(id, 120, nil) {
		t.Fatalf("late completion must not apply to a removed item")
	}
	if len(s.Items()) != 0 {
		t.Fatalf("late completion re-inserted a removed item")
	}
}

func TestRemoveItem_ReleasesResourceOnce(t *testing.T) {
	s := NewSession("s1")
	released := 0
	id := s.AddItem(fixtureService(), "doc.pdf", "https://files.test/doc.pdf", func() { released++ })

	s.RemoveItem(id)
	s.RemoveItem(id)

	if released != 1 {
		t.Fatalf("release called %d times, want 1", released)
	}
}

func TestBindingSelection_RepairedWhenPageCountChanges(t *testing.T) {
	s := NewSession("s1")
	id := readyItem(t, s, fixtureService(), "book.pdf", 25)

	// At 25 pages only the spiral tier is offered and it is auto-selected.
	item, err := s.Configure(id, pricing.Configuration{
		PrintType:     "bw",
		PaperSize:     "a4",
		BindingOption: "spiral",
		Copies:        1,
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if item.Configuration.BindingOption != "spiral" {
		t.Fatalf("binding = %q, want spiral", item.Configuration.BindingOption)
	}

	// The file is replaced by a shorter conversion result; spiral locks.
	s.CompleteDetection(id, 10, nil)

	items := s.Items()
	if got := items[0].Configuration.BindingOption; got != "none" {
		t.Fatalf("binding after shrink = %q, want repaired to none", got)
	}
	if len(items[0].AvailableBindings) != 1 || items[0].AvailableBindings[0].Value != "none" {
		t.Fatalf("available bindings = %+v, want only none", items[0].AvailableBindings)
	}
}

func TestConfigure_RejectsUnknownValues(t *testing.T) {
	s := NewSession("s1")
	id := readyItem(t, s, fixtureService(), "doc.pdf", 10)

	if _, err := s.Configure(id, pricing.Configuration{
		PrintType: "gold-leaf",
		PaperSize: "a4",
		Copies:    1,
	}); err == nil {
		t.Fatalf("configure with unknown print type should fail")
	}
}

func TestSubtotal_SumsHeterogeneousCart(t *testing.T) {
	s := NewSession("s1")

	docID := readyItem(t, s, fixtureService(), "doc.pdf", 10)
	posterID := readyItem(t, s, posterService(), "poster.pdf", 1)

	if _, err := s.Configure(docID, pricing.Configuration{
		PrintType: "color", // 2 + 5 per page
		PaperSize: "a4",
		Copies:    2,
	}); err != nil {
		t.Fatalf("configure doc: %v", err)
	}
	if _, err := s.Configure(posterID, pricing.Configuration{
		PrintType: "color",
		PaperSize: "a2",
		Copies:    3,
	}); err != nil {
		t.Fatalf("configure poster: %v", err)
	}

	// doc: 7*10*2 = 140, poster: 40*1*3 = 120
	if got := s.Subtotal(); !got.Equal(decimalFromInt(260)) {
		t.Fatalf("subtotal = %s, want 260", got.String())
	}

	s.RemoveItem(posterID)
	if got := s.Subtotal(); !got.Equal(decimalFromInt(140)) {
		t.Fatalf("subtotal after removal = %s, want 140", got.String())
	}

	items := s.Items()
	if len(items) != 1 || items[0].ServiceID != 1 {
		t.Fatalf("remaining items = %+v", items)
	}
}

func TestStore_SweepReleasesExpiredSessions(t *testing.T) {
	st := NewStore(time.Nanosecond)
	session := st.Create()

	released := false
	session.AddItem(fixtureService(), "doc.pdf", "https://files.test/doc.pdf", func() { released = true })

	time.Sleep(time.Millisecond)
	if n := st.Sweep(); n != 1 {
		t.Fatalf("swept %d sessions, want 1", n)
	}
	if !released {
		t.Fatalf("sweep must release item resources")
	}
	if _, ok := st.Get(session.ID); ok {
		t.Fatalf("swept session still retrievable")
	}
}
