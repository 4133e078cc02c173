package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// ErrDuplicate is returned when (kind, order_ref) was already recorded.
var ErrDuplicate = pkgerrors.New(pkgerrors.CodeConflict, "order already recorded")

// Service records economic events as one transaction plus its ledger entries.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.LedgerTransaction, error)
	RecordWithTx(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.LedgerTransaction, error)
	Exists(ctx context.Context, kind enums.LedgerTransactionKind, orderRef string) (bool, error)
}

// RecordInput carries the deltas of one event. Zero deltas write no entry.
type RecordInput struct {
	Kind        enums.LedgerTransactionKind
	OrderRef    string
	Description string
	Gold        int
	Material    types.PotionMix
	Potions     map[int64]int
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

// NewService wires a ledger service with the provided repository and transaction runner.
func NewService(repo Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.LedgerTransaction, error) {
	var recorded *models.LedgerTransaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txn, err := s.RecordWithTx(ctx, tx, input)
		if err != nil {
			return err
		}
		recorded = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// RecordWithTx writes the event using tx so callers can validate and append
// in the same unit of work.
func (s *service) RecordWithTx(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.LedgerTransaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	existing, err := repo.FindTransaction(ctx, input.Kind, input.OrderRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup ledger transaction")
	}
	if existing != nil {
		return existing, ErrDuplicate
	}

	txn := &models.LedgerTransaction{
		Kind:        input.Kind,
		OrderRef:    input.OrderRef,
		Description: input.Description,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrDuplicate
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ledger transaction")
	}

	if input.Gold != 0 {
		if err := repo.AppendGold(ctx, &models.GoldEntry{TransactionID: txn.ID, Change: input.Gold}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append gold entry")
		}
	}

	if input.Material != (types.PotionMix{}) {
		entry := &models.MaterialEntry{
			TransactionID: txn.ID,
			RedChange:     input.Material[0],
			GreenChange:   input.Material[1],
			BlueChange:    input.Material[2],
			DarkChange:    input.Material[3],
		}
		if err := repo.AppendMaterial(ctx, entry); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append ml entry")
		}
	}

	ids := make([]int64, 0, len(input.Potions))
	for id, change := range input.Potions {
		if change != 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		entry := &models.PotionEntry{TransactionID: txn.ID, PotionID: id, Change: input.Potions[id]}
		if err := repo.AppendPotion(ctx, entry); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append potion entry")
		}
	}

	return txn, nil
}

func (s *service) Exists(ctx context.Context, kind enums.LedgerTransactionKind, orderRef string) (bool, error) {
	txn, err := s.repo.FindTransaction(ctx, kind, orderRef)
	if err != nil {
		return false, err
	}
	return txn != nil, nil
}

func validateInput(input RecordInput) error {
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid ledger transaction kind %q", input.Kind))
	}
	if strings.TrimSpace(input.OrderRef) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order ref is required")
	}
	for id := range input.Potions {
		if id <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid potion id %d", id))
		}
	}
	return nil
}
