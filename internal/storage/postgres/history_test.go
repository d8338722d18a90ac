package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

func TestHistoryRepositoryAppend(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &historyRepository{storage: storage}

	orderID, owner := uuid.New(), uuid.New()
	change := model.StatusChange{
		OrderID:   orderID,
		OldStatus: model.StatusPtr(model.StatusPending),
		NewStatus: model.StatusOwnerAccepted,
		ChangedBy: &owner,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").WithArgs("owner_accepted", orderID, "pending").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO order_status_history").
		WithArgs(orderID, statusText(change.OldStatus), "owner_accepted", uuidText(&owner)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()
	if err := repo.Append(context.Background(), change); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").WithArgs("owner_accepted", orderID, "pending").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(orderID).WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()
	if err := repo.Append(context.Background(), change); !errors.Is(err, domainErrors.ErrConflictingWrite) {
		t.Fatalf("expected conflicting write, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").WithArgs("owner_accepted", orderID, "pending").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(orderID).WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()
	if err := repo.Append(context.Background(), change); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").WillReturnError(errors.New("update"))
	mock.ExpectRollback()
	if err := repo.Append(context.Background(), change); err == nil {
		t.Fatal("expected update error")
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("exists"))
	mock.ExpectRollback()
	if err := repo.Append(context.Background(), change); err == nil {
		t.Fatal("expected exists error")
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO order_status_history").WillReturnError(errors.New("insert"))
	mock.ExpectRollback()
	if err := repo.Append(context.Background(), change); err == nil {
		t.Fatal("expected insert error")
	}

	creation := model.StatusChange{OrderID: orderID, NewStatus: model.StatusOrdered}
	if err := repo.Append(context.Background(), creation); !errors.Is(err, domainErrors.ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestHistoryRepositoryListByOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &historyRepository{storage: storage}

	orderID, customer := uuid.New(), uuid.New()
	customerText := customer.String()
	system := "system"
	ordered := "ordered"
	now := time.Now()
	columns := []string{"id", "order_id", "old_status", "new_status", "changed_by", "changed_at"}

	mock.ExpectQuery("SELECT id, order_id, old_status, new_status, changed_by, changed_at").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows(columns).
			AddRow(int64(1), orderID, nil, "ordered", &customerText, now).
			AddRow(int64(2), orderID, &ordered, "cancelled", &system, now.Add(time.Second)))
	entries, err := repo.ListByOrder(context.Background(), orderID)
	if err != nil || len(entries) != 2 {
		t.Fatalf("unexpected result: %v err=%v", entries, err)
	}
	if entries[0].OldStatus != nil || entries[0].ChangedBy == nil || *entries[0].ChangedBy != customer {
		t.Fatalf("unexpected creation entry: %+v", entries[0])
	}
	if *entries[1].OldStatus != model.StatusOrdered || entries[1].NewStatus != model.StatusCancelled || entries[1].ChangedBy != nil {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}

	mock.ExpectQuery("SELECT id, order_id, old_status").WithArgs(orderID).WillReturnError(errors.New("query"))
	if _, err := repo.ListByOrder(context.Background(), orderID); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("SELECT id, order_id, old_status").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows(columns).AddRow("bad", orderID, nil, "ordered", nil, now))
	if _, err := repo.ListByOrder(context.Background(), orderID); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestParseUUIDText(t *testing.T) {
	if parseUUIDText(nil) != nil {
		t.Fatal("nil stays nil")
	}
	bad := "system"
	if parseUUIDText(&bad) != nil {
		t.Fatal("non uuid marker is the system actor")
	}
	id := uuid.New()
	raw := id.String()
	if got := parseUUIDText(&raw); got == nil || *got != id {
		t.Fatalf("unexpected id %v", got)
	}
}
