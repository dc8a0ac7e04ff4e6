package board

import (
	"errors"
	"testing"
	"time"

	"github.com/rotacarga/freight-crm/internal/model"
)

func testStore(deals ...model.Deal) (*Store, *time.Time) {
	s := NewStore(deals...)
	clock := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestNewDealDefaults(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	d, err := NewDeal(NewDealInput{Title: "Carga de Soja", ClientName: "Agro Ltda"}, model.BoardQuotation, now)
	if err != nil {
		t.Fatalf("NewDeal: %v", err)
	}
	if d.ID == "" {
		t.Error("deal has no id")
	}
	if d.Status != model.ColNewRequest {
		t.Errorf("status = %q, want %q", d.Status, model.ColNewRequest)
	}
	if d.Weight != 0 || d.Volume != 0 {
		t.Errorf("weight/volume = %v/%v, want 0/0", d.Weight, d.Volume)
	}
	if !d.CreatedAt.Equal(now) || !d.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v/%v, want %v", d.CreatedAt, d.UpdatedAt, now)
	}

	op, err := NewDeal(NewDealInput{Title: "Frete SP-BA", ClientName: "Agro Ltda"}, model.BoardOperation, now)
	if err != nil {
		t.Fatalf("NewDeal operation: %v", err)
	}
	if op.Status != model.ColOrderCreated {
		t.Errorf("operation status = %q, want %q", op.Status, model.ColOrderCreated)
	}
}

func TestNewDealValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		in    NewDealInput
		board model.BoardType
		want  error
	}{
		{name: "empty title", in: NewDealInput{ClientName: "X"}, board: model.BoardQuotation, want: ErrTitleRequired},
		{name: "empty client", in: NewDealInput{Title: "X"}, board: model.BoardQuotation, want: ErrClientRequired},
		{name: "unknown board", in: NewDealInput{Title: "X", ClientName: "Y"}, board: "backlog", want: ErrUnknownBoard},
		{name: "negative weight", in: NewDealInput{Title: "X", ClientName: "Y", Weight: -1}, board: model.BoardQuotation, want: ErrNegativeWeight},
		{name: "negative volume", in: NewDealInput{Title: "X", ClientName: "Y", Volume: -1}, board: model.BoardQuotation, want: ErrNegativeVolume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDeal(tt.in, tt.board, now); !errors.Is(err, tt.want) {
				t.Errorf("NewDeal = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMoveChangesOnlyStatus(t *testing.T) {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	d, _ := NewDeal(NewDealInput{Title: "Carga de Soja", ClientName: "Agro Ltda", Weight: 28000}, model.BoardQuotation, created)
	s, clock := testStore(d)

	moved, ok := s.Move(d.ID, model.ColPricing)
	if !ok {
		t.Fatal("Move reported not found")
	}
	if moved.Status != model.ColPricing {
		t.Errorf("status = %q, want %q", moved.Status, model.ColPricing)
	}
	if moved.Title != d.Title || moved.Weight != d.Weight || !moved.CreatedAt.Equal(created) {
		t.Error("move touched fields other than status")
	}
	if !moved.UpdatedAt.Equal(*clock) {
		t.Errorf("UpdatedAt = %v, want %v", moved.UpdatedAt, *clock)
	}

	// a later move strictly advances the update timestamp
	*clock = clock.Add(time.Minute)
	again, _ := s.Move(d.ID, model.ColWon)
	if !again.UpdatedAt.After(moved.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v then %v", moved.UpdatedAt, again.UpdatedAt)
	}

	if _, ok := s.Move("nope", model.ColWon); ok {
		t.Error("Move with unknown id reported found")
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	d, _ := NewDeal(NewDealInput{Title: "Carga de Soja", ClientName: "Agro Ltda"}, model.BoardQuotation, time.Now())
	s, _ := testStore(d)

	title := "Carga de Soja #88"
	freight := 5400.0
	got, ok := s.Update(d.ID, Patch{
		Title:       &title,
		BaseFreight: &freight,
		Custom:      map[string]model.FieldValue{"tipo": model.String("Lotação")},
	})
	if !ok {
		t.Fatal("Update reported not found")
	}
	if got.Title != title {
		t.Errorf("title = %q", got.Title)
	}
	if got.BaseFreight == nil || *got.BaseFreight != freight {
		t.Errorf("baseFreight = %v", got.BaseFreight)
	}
	if got.ClientName != "Agro Ltda" {
		t.Errorf("untouched field changed: %q", got.ClientName)
	}

	// custom entries merge key by key
	got, _ = s.Update(d.ID, Patch{Custom: map[string]model.FieldValue{"peso_real": model.Number(27500)}})
	if len(got.Custom) != 2 {
		t.Errorf("custom record = %v, want both keys", got.Custom)
	}

	if _, ok := s.Update("nope", Patch{Title: &title}); ok {
		t.Error("Update with unknown id reported found")
	}
}

func TestBoardViewPartition(t *testing.T) {
	now := time.Now()
	q1, _ := NewDeal(NewDealInput{Title: "Q1", ClientName: "C"}, model.BoardQuotation, now)
	q2, _ := NewDeal(NewDealInput{Title: "Q2", ClientName: "C"}, model.BoardQuotation, now)
	o1, _ := NewDeal(NewDealInput{Title: "O1", ClientName: "C"}, model.BoardOperation, now)
	s, _ := testStore(q1, q2, o1)
	s.Move(q2.ID, model.ColNegotiation)

	view := s.BoardView(model.BoardQuotation)
	if len(view) != 7 {
		t.Fatalf("quotation board has %d columns, want 7", len(view))
	}
	byID := map[model.ColumnID][]model.Deal{}
	total := 0
	for _, cv := range view {
		if cv.Deals == nil {
			t.Errorf("column %s has nil deal slice", cv.Column.ID)
		}
		byID[cv.Column.ID] = cv.Deals
		total += len(cv.Deals)
	}
	if total != 2 {
		t.Errorf("quotation view holds %d deals, want 2", total)
	}
	if len(byID[model.ColNewRequest]) != 1 || byID[model.ColNewRequest][0].ID != q1.ID {
		t.Errorf("new_request column = %v", byID[model.ColNewRequest])
	}
	if len(byID[model.ColNegotiation]) != 1 || byID[model.ColNegotiation][0].ID != q2.ID {
		t.Errorf("negotiation column = %v", byID[model.ColNegotiation])
	}

	opView := s.BoardView(model.BoardOperation)
	if len(opView) != 6 {
		t.Fatalf("operation board has %d columns, want 6", len(opView))
	}
	if len(opView[0].Deals) != 1 || opView[0].Deals[0].ID != o1.ID {
		t.Errorf("order_created column = %v", opView[0].Deals)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	d, _ := NewDeal(NewDealInput{Title: "Q1", ClientName: "C"}, model.BoardQuotation, time.Now())
	d.Custom = map[string]model.FieldValue{"tipo": model.String("Lotação")}
	s, _ := testStore(d)

	got, err := s.Get(d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Custom["tipo"] = model.String("mutated")

	fresh, _ := s.Get(d.ID)
	if fresh.Custom["tipo"].Str != "Lotação" {
		t.Error("mutating a returned deal leaked into the store")
	}

	if _, err := s.Get("nope"); !errors.Is(err, ErrDealNotFound) {
		t.Errorf("Get unknown id: %v, want ErrDealNotFound", err)
	}
}

func TestSeedDealsLandOnBothBoards(t *testing.T) {
	s, _ := testStore(SeedDeals()...)
	q := 0
	for _, cv := range s.BoardView(model.BoardQuotation) {
		q += len(cv.Deals)
	}
	o := 0
	for _, cv := range s.BoardView(model.BoardOperation) {
		o += len(cv.Deals)
	}
	if q == 0 || o == 0 {
		t.Errorf("seed distribution: quotation=%d operation=%d, want both non-zero", q, o)
	}
	if q+o != len(SeedDeals()) {
		t.Errorf("seed deals lost in partition: %d+%d != %d", q, o, len(SeedDeals()))
	}
}
