package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ledger-service-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestRecordTransfer_HistoryMostRecentFirst(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()
	transfers := []models.Transfer{
		{Id: "t1", Giver: "alice", Receiver: "bob"},
		{Id: "t2", Giver: "carol", Receiver: "dave"},
		{Id: "t3", Giver: "bob", Receiver: "alice"},
		{Id: "t4", Giver: "alice", Receiver: "carol"},
	}
	for i, tr := range transfers {
		tr.Amount = decimal.NewFromFloat(1.5)
		tr.When = now
		if err := service.RecordTransfer(ctx, tr); err != nil {
			t.Fatalf("RecordTransfer %d failed: %v", i, err)
		}
	}

	history, err := service.ListTransfers(ctx, "alice", 10, 0)
	if err != nil {
		t.Fatalf("ListTransfers failed: %v", err)
	}

	want := []string{"t4", "t3", "t1"}
	if len(history) != len(want) {
		t.Fatalf("Expected %d transfers, got %d", len(want), len(history))
	}
	for i, id := range want {
		if history[i].Id != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, history[i].Id)
		}
	}
	if !history[0].Amount.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("Expected amount 1.5, got %s", history[0].Amount)
	}
}

func TestListTransfers_Pagination(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		err := service.RecordTransfer(ctx, models.Transfer{
			Id:       fmt.Sprintf("t%d", i),
			Giver:    "alice",
			Receiver: "bob",
			Amount:   decimal.NewFromInt(int64(i + 1)),
			When:     time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("RecordTransfer failed: %v", err)
		}
	}

	page, err := service.ListTransfers(ctx, "bob", 2, 2)
	if err != nil {
		t.Fatalf("ListTransfers failed: %v", err)
	}
	if len(page) != 2 || page[0].Id != "t2" || page[1].Id != "t1" {
		t.Errorf("Unexpected page: %+v", page)
	}

	empty, err := service.ListTransfers(ctx, "nobody", 10, 0)
	if err != nil {
		t.Fatalf("ListTransfers failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", empty)
	}
}

func TestRecordTransfer_DuplicateIdRejected(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	tr := models.Transfer{Id: "dup", Giver: "a", Receiver: "b", Amount: decimal.NewFromInt(1), When: time.Now().UTC()}
	if err := service.RecordTransfer(ctx, tr); err != nil {
		t.Fatalf("RecordTransfer failed: %v", err)
	}
	if err := service.RecordTransfer(ctx, tr); err == nil {
		t.Error("Expected duplicate transfer id to be rejected")
	}
}
