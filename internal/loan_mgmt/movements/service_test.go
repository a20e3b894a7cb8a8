package movements

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/ZeusOff7/Emp-Equip/internal/loan_mgmt/equipment"
)

// ---- test doubles ----

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewULID(time.Time) string {
	g.n++
	return fmt.Sprintf("MV%024d", g.n)
}

type fakeMovementStore struct {
	items []Movement
}

func (f *fakeMovementStore) Insert(_ context.Context, m *Movement) error {
	f.items = append(f.items, *m)
	return nil
}

func (f *fakeMovementStore) List(_ context.Context, flt ListFilter) ([]Movement, error) {
	var out []Movement
	for _, m := range f.items {
		if flt.EquipmentID != "" && m.EquipmentID != flt.EquipmentID {
			continue
		}
		if flt.MovementType != "" && string(m.MovementType) != flt.MovementType {
			continue
		}
		if flt.Start != nil && m.Timestamp.Before(*flt.Start) {
			continue
		}
		if flt.End != nil && m.Timestamp.After(*flt.End) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// 機材レジストリのフェイク。ステータス遷移の規則はサービス実装と揃えてある。
type fakeRegistry struct {
	clock *fixedClock
	items map[string]equipment.EquipmentResponse
}

func newFakeRegistry(clock *fixedClock) *fakeRegistry {
	return &fakeRegistry{clock: clock, items: map[string]equipment.EquipmentResponse{}}
}

func (f *fakeRegistry) add(id, name string) {
	f.items[id] = equipment.EquipmentResponse{
		ID:     id,
		Name:   name,
		Model:  "model",
		Status: string(equipment.StatusAvailable),
	}
}

func (f *fakeRegistry) Get(_ context.Context, id string) (equipment.EquipmentResponse, error) {
	m, ok := f.items[id]
	if !ok {
		return equipment.EquipmentResponse{}, equipment.ErrNotFound("equipment not found")
	}
	return m, nil
}

func (f *fakeRegistry) MarkOnLoan(_ context.Context, id, borrower, email string, delivery, expected *time.Time) error {
	m := f.items[id]
	m.Status = string(equipment.StatusOnLoan)
	m.CurrentBorrower = &borrower
	m.CurrentBorrowerEmail = &email
	m.DeliveryDate = delivery
	m.ExpectedReturnDate = expected
	m.UpdatedAt = f.clock.t
	f.items[id] = m
	return nil
}

func (f *fakeRegistry) MarkAvailable(_ context.Context, id string) error {
	m := f.items[id]
	m.Status = string(equipment.StatusAvailable)
	m.CurrentBorrower = nil
	m.CurrentBorrowerEmail = nil
	m.DeliveryDate = nil
	m.ExpectedReturnDate = nil
	m.UpdatedAt = f.clock.t
	f.items[id] = m
	return nil
}

func (f *fakeRegistry) ListOverdue(_ context.Context) ([]equipment.EquipmentResponse, error) {
	var out []equipment.EquipmentResponse
	for _, m := range f.items {
		if m.Status == string(equipment.StatusOnLoan) && m.ExpectedReturnDate != nil && m.ExpectedReturnDate.Before(f.clock.t) {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeMovementStore, *fakeRegistry, *fixedClock) {
	clock := &fixedClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	store := &fakeMovementStore{}
	reg := newFakeRegistry(clock)
	svc := newService(store, reg, clock, &seqIDGen{})
	return svc, store, reg, clock
}

// ---- tests ----

func TestCheckOutRecordsMovementAndMarksOnLoan(t *testing.T) {
	svc, store, reg, clock := newTestService()
	ctx := context.Background()
	reg.add("EQ1", "Projector")

	due := clock.t.Add(7 * 24 * time.Hour)
	res, err := svc.RecordMovement(ctx, CreateMovementRequest{
		EquipmentID:        "EQ1",
		MovementType:       string(TypeCheckOut),
		BorrowerName:       "Tanaka",
		BorrowerEmail:      "tanaka@example.com",
		ExpectedReturnDate: &due,
	})
	assert.Equal(t, err, nil)
	assert.Equal(t, res.EquipmentName, "Projector") // イベント時点の名称を固定
	assert.Equal(t, res.MovementType, string(TypeCheckOut))
	assert.Equal(t, res.ActualReturnDate, nil)
	assert.Equal(t, res.Timestamp, clock.t)
	assert.Equal(t, len(store.items), 1)

	eq := reg.items["EQ1"]
	assert.Equal(t, eq.Status, string(equipment.StatusOnLoan))
	assert.Equal(t, *eq.CurrentBorrower, "Tanaka")
	assert.Equal(t, *eq.ExpectedReturnDate, due)
}

func TestCheckInClearsLoanAndStampsReturn(t *testing.T) {
	svc, store, reg, clock := newTestService()
	ctx := context.Background()
	reg.add("EQ1", "Projector")

	due := clock.t.Add(24 * time.Hour)
	_, err := svc.RecordMovement(ctx, CreateMovementRequest{
		EquipmentID:        "EQ1",
		MovementType:       string(TypeCheckOut),
		BorrowerName:       "Tanaka",
		BorrowerEmail:      "tanaka@example.com",
		ExpectedReturnDate: &due,
	})
	assert.Equal(t, err, nil)

	clock.t = clock.t.Add(48 * time.Hour)
	res, err := svc.RecordMovement(ctx, CreateMovementRequest{
		EquipmentID:   "EQ1",
		MovementType:  string(TypeCheckIn),
		BorrowerName:  "Tanaka",
		BorrowerEmail: "tanaka@example.com",
	})
	assert.Equal(t, err, nil)
	assert.Equal(t, *res.ActualReturnDate, clock.t)
	assert.Equal(t, len(store.items), 2)

	eq := reg.items["EQ1"]
	assert.Equal(t, eq.Status, string(equipment.StatusAvailable))
	assert.Equal(t, eq.CurrentBorrower, nil)
	assert.Equal(t, eq.ExpectedReturnDate, nil)
}

func TestUnknownMovementTypeRejected(t *testing.T) {
	svc, store, reg, _ := newTestService()
	ctx := context.Background()
	reg.add("EQ1", "Projector")

	_, err := svc.RecordMovement(ctx, CreateMovementRequest{
		EquipmentID:   "EQ1",
		MovementType:  "transfer",
		BorrowerName:  "Tanaka",
		BorrowerEmail: "tanaka@example.com",
	})
	assertCode(t, err, CodeInvalidArgument)

	// 機材も履歴も触らない
	assert.Equal(t, reg.items["EQ1"].Status, string(equipment.StatusAvailable))
	assert.Equal(t, len(store.items), 0)
}

func TestRecordMovementEquipmentNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.RecordMovement(context.Background(), CreateMovementRequest{
		EquipmentID:   "missing",
		MovementType:  string(TypeCheckOut),
		BorrowerName:  "Tanaka",
		BorrowerEmail: "tanaka@example.com",
	})
	assertCode(t, err, CodeNotFound)
}

func TestListMovementsFilterAndOrder(t *testing.T) {
	svc, _, reg, clock := newTestService()
	ctx := context.Background()
	reg.add("EQ1", "Projector")
	reg.add("EQ2", "Camera")

	record := func(id string, mt MovementType) {
		_, err := svc.RecordMovement(ctx, CreateMovementRequest{
			EquipmentID:   id,
			MovementType:  string(mt),
			BorrowerName:  "Tanaka",
			BorrowerEmail: "tanaka@example.com",
		})
		assert.Equal(t, err, nil)
		clock.t = clock.t.Add(time.Hour)
	}
	record("EQ1", TypeCheckOut)
	record("EQ2", TypeCheckOut)
	record("EQ1", TypeCheckIn)

	res, err := svc.ListMovements(ctx, ListFilter{EquipmentID: "EQ1"})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(res), 2)
	// timestamp 降順
	assert.Equal(t, res[0].MovementType, string(TypeCheckIn))
	assert.Equal(t, res[1].MovementType, string(TypeCheckOut))
	for _, m := range res {
		assert.Equal(t, m.EquipmentID, "EQ1")
	}

	res, err = svc.ListMovements(ctx, ListFilter{MovementType: string(TypeCheckOut)})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(res), 2)

	_, err = svc.ListMovements(ctx, ListFilter{MovementType: "misc"})
	assertCode(t, err, CodeInvalidArgument)
}

func TestOverdueDisappearsAfterCheckIn(t *testing.T) {
	svc, _, reg, clock := newTestService()
	ctx := context.Background()
	reg.add("EQ1", "Projector")

	due := clock.t.Add(24 * time.Hour)
	_, err := svc.RecordMovement(ctx, CreateMovementRequest{
		EquipmentID:        "EQ1",
		MovementType:       string(TypeCheckOut),
		BorrowerName:       "Tanaka",
		BorrowerEmail:      "tanaka@example.com",
		ExpectedReturnDate: &due,
	})
	assert.Equal(t, err, nil)

	// 期限を過ぎると一覧に載る
	clock.t = clock.t.Add(48 * time.Hour)
	overdue, err := svc.ListOverdue(ctx)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(overdue), 1)
	assert.Equal(t, overdue[0].ID, "EQ1")

	// 返却後は消える
	_, err = svc.RecordMovement(ctx, CreateMovementRequest{
		EquipmentID:   "EQ1",
		MovementType:  string(TypeCheckIn),
		BorrowerName:  "Tanaka",
		BorrowerEmail: "tanaka@example.com",
	})
	assert.Equal(t, err, nil)

	overdue, err = svc.ListOverdue(ctx)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(overdue), 0)
}

// ---- helpers ----

func assertCode(t *testing.T, err error, want Code) {
	t.Helper()
	api, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %v", err)
	}
	assert.Equal(t, api.Code, want)
}
