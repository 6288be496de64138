package wizard

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"printease-system/internal/database/models"
	"printease-system/internal/pricing"
)

const (
	StepUpload    = "upload"
	StepConfigure = "configure"
	StepReview    = "review"

	FileStatusUploading  = "uploading"
	FileStatusProcessing = "processing"
	FileStatusReady      = "ready"
	FileStatusError      = "error"
)

var (
	ErrItemNotFound   = errors.New("item not found in session")
	ErrUnknownStep    = errors.New("unknown wizard step")
	ErrAlreadyAtFinal = errors.New("already at the review step")
)

var stepRank = map[string]int{
	StepUpload:    0,
	StepConfigure: 1,
	StepReview:    2,
}

// Item is one uploaded file with its configuration and computed pricing.
// Items from different services coexist in the same session; each keeps the
// service snapshot it was created under.
type Item struct {
	ID          string
	ServiceID   int64
	ServiceName string

	Service models.Service

	FileName   string
	FileURL    string
	FileStatus string
	FileError  string
	PageCount  int

	Configuration pricing.Configuration
	Pricing       pricing.ItemPricing

	AvailableBindings []pricing.BindingOption

	engineService pricing.Service
	release       func()
}

// Session is a three-step order wizard: upload, configure, review. Forward
// navigation is guarded; back-navigation to any earlier step is free. All
// methods are safe for concurrent use, which matters because each file's
// page-count detection completes on its own goroutine.
type Session struct {
	mu sync.Mutex

	ID        string
	Step      string
	UpdatedAt time.Time

	items   []*Item
	nextSeq int64
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Step:      StepUpload,
		UpdatedAt: time.Now(),
	}
}

// AddItem registers a freshly uploaded file against the currently selected
// service and returns its item id. The item starts in processing; the caller
// runs page-count detection asynchronously and reports back through
// CompleteDetection. release, if non-nil, is invoked exactly once when the
// item is removed.
func (s *Session) AddItem(service models.Service, fileName, fileURL string, release func()) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	item := &Item{
		ID:            fmt.Sprintf("item-%d", s.nextSeq),
		ServiceID:     service.ID,
		ServiceName:   service.Name,
		Service:       service,
		FileName:      fileName,
		FileURL:       fileURL,
		FileStatus:    FileStatusProcessing,
		Configuration: pricing.Configuration{Copies: 1},
		engineService: pricing.ServiceFromModel(service),
		release:       release,
	}
	s.items = append(s.items, item)
	s.touch()
	return item.ID
}

// CompleteDetection applies the result of an async page-count detection. If
// the item was removed while detection was in flight the result is dropped
// and false is returned; a removed item must never be re-inserted.
func (s *Session) CompleteDetection(itemID string, pageCount int, detectErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(itemID)
	if item == nil {
		return false
	}

	if detectErr != nil {
		item.FileStatus = FileStatusError
		item.FileError = detectErr.Error()
		s.touch()
		return true
	}

	item.FileStatus = FileStatusReady
	item.FileError = ""
	item.PageCount = pageCount
	s.applyPageCount(item)
	s.touch()
	return true
}

// Configure replaces an item's configuration and recomputes its pricing
// wholesale. Values that do not exist in the item's service snapshot are
// rejected here, since the engine would silently price them at zero.
func (s *Session) Configure(itemID string, config pricing.Configuration) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(itemID)
	if item == nil {
		return Item{}, ErrItemNotFound
	}

	if invalid := pricing.InvalidFields(item.engineService, config, item.PageCount); len(invalid) > 0 {
		return Item{}, fmt.Errorf("invalid configuration fields: %s", strings.Join(invalid, ", "))
	}

	item.Configuration = config
	s.applyPageCount(item)
	s.touch()
	return *item, nil
}

// RemoveItem drops an item and releases any resource it owns. Removing an
// item whose detection is still in flight is allowed; the late completion
// callback will find nothing to update.
func (s *Session) RemoveItem(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == itemID {
			if item.release != nil {
				item.release()
				item.release = nil
			}
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.touch()
			return true
		}
	}
	return false
}

// Advance moves to the next step if its guard passes.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.Step {
	case StepUpload:
		if len(s.items) == 0 {
			return errors.New("add at least one file before continuing")
		}
		for _, item := range s.items {
			if item.FileStatus != FileStatusReady {
				return fmt.Errorf("file %q is not ready (status: %s)", item.FileName, item.FileStatus)
			}
		}
		s.Step = StepConfigure
	case StepConfigure:
		for _, item := range s.items {
			cfg := item.Configuration
			if cfg.PrintType == "" || cfg.PaperSize == "" || cfg.Copies < 1 {
				return fmt.Errorf("file %q is not fully configured", item.FileName)
			}
		}
		s.Step = StepReview
	case StepReview:
		return ErrAlreadyAtFinal
	default:
		return ErrUnknownStep
	}
	s.touch()
	return nil
}

// Back returns to an earlier step. Forward jumps must go through Advance.
func (s *Session) Back(to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	toRank, ok := stepRank[to]
	if !ok {
		return ErrUnknownStep
	}
	if toRank >= stepRank[s.Step] {
		return fmt.Errorf("cannot navigate forward to %s", to)
	}
	s.Step = to
	s.touch()
	return nil
}

// CurrentStep reads the step under the session lock. Handlers rendering a
// session concurrently with navigation must use this, not the field.
func (s *Session) CurrentStep() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Step
}

// Items returns a snapshot of the session's items in insertion order.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	return items
}

// Subtotal is the sum of all item subtotals. Delivery and packing fees are
// added by the caller at the review boundary, never here.
func (s *Session) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Pricing.Subtotal)
	}
	return total
}

func (s *Session) find(itemID string) *Item {
	for _, item := range s.items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

// applyPageCount re-derives binding availability at the item's current page
// count and repairs a selection that is no longer offered, then recomputes
// pricing wholesale. Skipping the repair would let the configuration point
// at a locked option, which the engine prices at zero.
func (s *Session) applyPageCount(item *Item) {
	item.AvailableBindings = pricing.AvailableBindingOptions(item.engineService, item.PageCount)

	selected := item.Configuration.BindingOption
	stillAvailable := false
	for _, opt := range item.AvailableBindings {
		if opt.Value == selected {
			stillAvailable = true
			break
		}
	}
	if !stillAvailable {
		if len(item.AvailableBindings) > 0 {
			item.Configuration.BindingOption = item.AvailableBindings[0].Value
		} else {
			item.Configuration.BindingOption = ""
		}
	}

	config := item.Configuration
	if config.Copies < 1 {
		config.Copies = 1
	}
	item.Pricing = pricing.CalculateItemPricing(item.engineService, config, item.PageCount)
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
