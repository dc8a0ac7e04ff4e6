// Package board holds the in-memory deal collection and the kanban view
// over it.  The store is session-scoped: it owns the deal slice for the
// lifetime of the process and resets on restart.
package board

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rotacarga/freight-crm/internal/model"
)

// Validation errors for deal creation.
var (
	ErrTitleRequired  = errors.New("title is required")
	ErrClientRequired = errors.New("client name is required")
	ErrUnknownBoard   = errors.New("unknown board")
	ErrNegativeWeight = errors.New("weight must be >= 0")
	ErrNegativeVolume = errors.New("volume must be >= 0")
)

// ErrDealNotFound is returned by lookups for ids not in the store.
var ErrDealNotFound = errors.New("deal not found")

// NewDealInput carries the fields a user fills in when creating a card.
type NewDealInput struct {
	Title       string  `json:"title"`
	ClientName  string  `json:"clientName"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Weight      float64 `json:"weight"`
	Volume      float64 `json:"volume"`
	Value       float64 `json:"value"`
}

// Patch is a partial deal update: nil pointers leave the field untouched.
// Custom entries are merged key by key onto the record.
type Patch struct {
	Title       *string  `json:"title,omitempty"`
	ClientName  *string  `json:"clientName,omitempty"`
	Origin      *string  `json:"origin,omitempty"`
	Destination *string  `json:"destination,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
	Value       *float64 `json:"value,omitempty"`

	Deadline         *time.Time `json:"deadline,omitempty"`
	Restrictions     *string    `json:"restrictions,omitempty"`
	MerchandiseValue *float64   `json:"merchandiseValue,omitempty"`

	BaseFreight       *float64 `json:"baseFreight,omitempty"`
	Tolls             *float64 `json:"tolls,omitempty"`
	RiskManagementFee *float64 `json:"riskManagementFee,omitempty"`
	Margin            *float64 `json:"margin,omitempty"`

	DriverName    *string `json:"driverName,omitempty"`
	DriverVehicle *string `json:"driverVehicle,omitempty"`
	NFeKey        *string `json:"nfeKey,omitempty"`
	PodURL        *string `json:"podUrl,omitempty"`

	IsLate      *bool `json:"isLate,omitempty"`
	MissingDocs *bool `json:"missingDocs,omitempty"`

	Custom map[string]model.FieldValue `json:"custom,omitempty"`
}

// ColumnView is one rendered kanban column: its definition plus the deals
// currently sitting in it, in insertion order.
type ColumnView struct {
	Column model.Column `json:"column"`
	Deals  []model.Deal `json:"deals"`
}

// Store is the single owner of the deal collection.  It is constructed
// explicitly and handed to the HTTP layer; mutation goes through its
// methods only.  A mutex guards the slice because handler goroutines share
// the store.
type Store struct {
	mu    sync.Mutex
	deals []model.Deal
	now   func() time.Time
}

// NewStore returns a store pre-populated with the given deals.
func NewStore(seed ...model.Deal) *Store {
	s := &Store{now: time.Now}
	s.deals = append(s.deals, seed...)
	return s
}

// NewDeal validates the input and builds a deal entering the active board
// at its initial column.  Weight and volume left unspecified default to 0.
func NewDeal(in NewDealInput, b model.BoardType, now time.Time) (model.Deal, error) {
	if in.Title == "" {
		return model.Deal{}, ErrTitleRequired
	}
	if in.ClientName == "" {
		return model.Deal{}, ErrClientRequired
	}
	if !model.ValidBoard(b) {
		return model.Deal{}, ErrUnknownBoard
	}
	if in.Weight < 0 {
		return model.Deal{}, ErrNegativeWeight
	}
	if in.Volume < 0 {
		return model.Deal{}, ErrNegativeVolume
	}
	return model.Deal{
		ID:          uuid.NewString(),
		Title:       in.Title,
		ClientName:  in.ClientName,
		Origin:      in.Origin,
		Destination: in.Destination,
		Weight:      in.Weight,
		Volume:      in.Volume,
		Value:       in.Value,
		Status:      model.InitialStatus(b),
		Board:       b,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Add appends a deal to the collection.
func (s *Store) Add(d model.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = append(s.deals, d)
}

// Get returns a copy of the deal with the given id.
func (s *Store) Get(id string) (model.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID == id {
			return cloneDeal(s.deals[i]), nil
		}
	}
	return model.Deal{}, ErrDealNotFound
}

// Update merges a patch into the matching deal and refreshes its update
// timestamp.  An unknown id is a no-op, matching the board contract.
func (s *Store) Update(id string, p Patch) (model.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID != id {
			continue
		}
		d := &s.deals[i]
		applyPatch(d, p)
		d.UpdatedAt = s.now()
		return cloneDeal(*d), true
	}
	return model.Deal{}, false
}

// Move sets the deal's status and refreshes its update timestamp.  No other
// field changes.  The target column is not checked against the deal's own
// board; a drop decides, exactly as the drag-and-drop surface allows.
func (s *Store) Move(id string, status model.ColumnID) (model.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID != id {
			continue
		}
		s.deals[i].Status = status
		s.deals[i].UpdatedAt = s.now()
		return cloneDeal(s.deals[i]), true
	}
	return model.Deal{}, false
}

// List returns a copy of every deal in insertion order.
func (s *Store) List() []model.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Deal, len(s.deals))
	for i := range s.deals {
		out[i] = cloneDeal(s.deals[i])
	}
	return out
}

// BoardView partitions the board's deals into its exact column set.  A deal
// shows under the column whose id equals its status and whose board equals
// the requested board; columns with no deals are still present so the
// client can render their drop placeholder.
func (s *Store) BoardView(b model.BoardType) []ColumnView {
	cols := model.BoardColumns[b]
	out := make([]ColumnView, len(cols))
	for i, c := range cols {
		out[i] = ColumnView{Column: c, Deals: []model.Deal{}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		d := &s.deals[i]
		if d.Board != b {
			continue
		}
		for j := range out {
			if out[j].Column.ID == d.Status {
				out[j].Deals = append(out[j].Deals, cloneDeal(*d))
				break
			}
		}
	}
	return out
}

func applyPatch(d *model.Deal, p Patch) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.ClientName != nil {
		d.ClientName = *p.ClientName
	}
	if p.Origin != nil {
		d.Origin = *p.Origin
	}
	if p.Destination != nil {
		d.Destination = *p.Destination
	}
	if p.Weight != nil {
		d.Weight = *p.Weight
	}
	if p.Volume != nil {
		d.Volume = *p.Volume
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.Deadline != nil {
		d.Deadline = p.Deadline
	}
	if p.Restrictions != nil {
		d.Restrictions = p.Restrictions
	}
	if p.MerchandiseValue != nil {
		d.MerchandiseValue = p.MerchandiseValue
	}
	if p.BaseFreight != nil {
		d.BaseFreight = p.BaseFreight
	}
	if p.Tolls != nil {
		d.Tolls = p.Tolls
	}
	if p.RiskManagementFee != nil {
		d.RiskManagementFee = p.RiskManagementFee
	}
	if p.Margin != nil {
		d.Margin = p.Margin
	}
	if p.DriverName != nil {
		d.DriverName = p.DriverName
	}
	if p.DriverVehicle != nil {
		d.DriverVehicle = p.DriverVehicle
	}
	if p.NFeKey != nil {
		d.NFeKey = p.NFeKey
	}
	if p.PodURL != nil {
		d.PodURL = p.PodURL
	}
	if p.IsLate != nil {
		d.IsLate = *p.IsLate
	}
	if p.MissingDocs != nil {
		d.MissingDocs = *p.MissingDocs
	}
	for k, v := range p.Custom {
		if d.Custom == nil {
			d.Custom = make(map[string]model.FieldValue, len(p.Custom))
		}
		d.Custom[k] = v
	}
}

func cloneDeal(d model.Deal) model.Deal {
	out := d
	if d.Custom != nil {
		out.Custom = make(map[string]model.FieldValue, len(d.Custom))
		for k, v := range d.Custom {
			out.Custom[k] = v
		}
	}
	return out
}
