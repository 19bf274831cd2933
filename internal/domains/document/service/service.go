package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	alertservice "inventory-backend/internal/domains/alert/service"
	"inventory-backend/internal/domains/document/model"
	"inventory-backend/internal/domains/document/repository"
	productrepo "inventory-backend/internal/domains/product/repository"
	stockmodel "inventory-backend/internal/domains/stock/model"
	stockrepo "inventory-backend/internal/domains/stock/repository"
	"inventory-backend/internal/shared/apperr"
	"inventory-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Document number prefixes. PO/INV for regular documents, CN/RET for the
// compensating documents produced by cancellation.
const (
	purchasePrefix    = "PO-"
	salePrefix        = "INV-"
	cancelSalePrefix  = "CN-"
	returnPrefix      = "RET-"
	numberGenAttempts = 3
)

// ServiceInterface is the document engine contract: atomic posting and
// compensating cancellation for purchases and sales.
type ServiceInterface interface {
	PostPurchase(ctx context.Context, req model.PostPurchaseRequest, actor uuid.UUID) (*model.Purchase, error)
	PostSale(ctx context.Context, req model.PostSaleRequest, actor uuid.UUID) (*model.Sale, error)

	// CancelPurchase posts a compensating outbound document and marks the
	// original CANCELLED; fails with InsufficientStock if the received goods
	// have already been sold.
	CancelPurchase(ctx context.Context, id, actor uuid.UUID) (*model.Purchase, error)

	// CancelSale posts a compensating inbound document restoring the sold
	// quantities at their COGS snapshot and marks the original CANCELLED.
	CancelSale(ctx context.Context, id, actor uuid.UUID) (*model.Sale, error)

	GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	ListPurchases(ctx context.Context, filter model.ListFilter) ([]model.Purchase, int64, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListSales(ctx context.Context, filter model.ListFilter) ([]model.Sale, int64, error)
}

type documentService struct {
	db          database.Beginner
	repo        repository.RepositoryInterface
	productRepo productrepo.RepositoryInterface
	stockRepo   stockrepo.RepositoryInterface
	alerts      alertservice.ServiceInterface
}

// NewDocumentService creates the document engine.
func NewDocumentService(
	db database.Beginner,
	repo repository.RepositoryInterface,
	productRepo productrepo.RepositoryInterface,
	stockRepo stockrepo.RepositoryInterface,
	alerts alertservice.ServiceInterface,
) ServiceInterface {
	return &documentService{
		db:          db,
		repo:        repo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		alerts:      alerts,
	}
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixMilli())
}

// isNumberClash reports whether err is the unique violation on a header number
// column. That is the only conflict a regenerated number can resolve; guard
// conflicts (wrong status, compensator) must surface as-is.
func isNumberClash(err error) bool {
	var ce *apperr.ConflictError
	return errors.As(err, &ce) && strings.Contains(ce.Detail, "number")
}

// postWithNumberRetry runs post once with the caller-supplied number, or up to
// numberGenAttempts times with freshly generated numbers. Each attempt is its
// own transaction; a generated number that clashes gets a fresh suffix, a
// caller-supplied one surfaces the conflict immediately.
func postWithNumberRetry[T any](
	ctx context.Context,
	db database.Beginner,
	supplied string,
	prefix string,
	post func(tx pgx.Tx, number string) (T, error),
) (T, error) {
	if supplied != "" {
		return database.WithTransactionResult(ctx, db, func(tx pgx.Tx) (T, error) {
			return post(tx, supplied)
		})
	}

	var zero T
	for attempt := 0; attempt < numberGenAttempts; attempt++ {
		number := generateNumber(prefix)
		result, err := database.WithTransactionResult(ctx, db, func(tx pgx.Tx) (T, error) {
			return post(tx, number)
		})
		if err == nil {
			return result, nil
		}
		if isNumberClash(err) {
			continue
		}
		return zero, err
	}
	return zero, apperr.Conflict("document number", "could not generate a unique number")
}

func (s *documentService) PostPurchase(ctx context.Context, req model.PostPurchaseRequest, actor uuid.UUID) (*model.Purchase, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("purchase", err.Error())
	}
	lines := req.MergedLines()

	return postWithNumberRetry(ctx, s.db, req.ReferenceNumber, purchasePrefix,
		func(tx pgx.Tx, number string) (*model.Purchase, error) {
			if ok, err := s.repo.SupplierExistsTx(ctx, tx, req.SupplierID); err != nil {
				return nil, err
			} else if !ok {
				return nil, apperr.NotFound("supplier", req.SupplierID.String())
			}
			if ok, err := s.repo.WarehouseExistsTx(ctx, tx, req.WarehouseID); err != nil {
				return nil, err
			} else if !ok {
				return nil, apperr.NotFound("warehouse", req.WarehouseID.String())
			}

			header := &model.PurchaseHeader{
				ReferenceNumber: number,
				SupplierID:      &req.SupplierID,
				WarehouseID:     req.WarehouseID,
				Status:          model.StatusPosted,
				Notes:           req.Notes,
				CreatedBy:       actor,
			}
			if err := s.repo.CreatePurchaseHeaderTx(ctx, tx, header); err != nil {
				return nil, err
			}

			built, err := s.postPurchaseLines(ctx, tx, header, lines, actor, true)
			if err != nil {
				return nil, err
			}

			touched := make([]uuid.UUID, 0, len(lines))
			for _, l := range lines {
				touched = append(touched, l.ProductID)
			}
			if err := s.checkAlerts(ctx, tx, touched); err != nil {
				return nil, err
			}

			return &model.Purchase{PurchaseHeader: *header, Lines: built}, nil
		})
}

// postPurchaseLines inserts the lines, appends one PURCHASE_IN movement each
// and accumulates the header total. overwriteCost is off for compensating
// documents so a cancellation does not disturb the product's cost price.
func (s *documentService) postPurchaseLines(
	ctx context.Context,
	tx pgx.Tx,
	header *model.PurchaseHeader,
	lines []model.PurchaseLineInput,
	actor uuid.UUID,
	overwriteCost bool,
) ([]model.PurchaseLine, error) {
	total := decimal.Zero
	built := make([]model.PurchaseLine, 0, len(lines))

	for _, input := range lines {
		product, err := s.productRepo.GetTx(ctx, tx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, apperr.Validation("product", "product "+product.Code+" is inactive")
		}

		line := model.PurchaseLine{
			HeaderID:  header.ID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			UnitCost:  input.UnitCost,
			LineTotal: input.UnitCost.Mul(decimal.NewFromInt(input.Quantity)),
			Notes:     input.Notes,
		}
		if err := s.repo.CreatePurchaseLineTx(ctx, tx, &line); err != nil {
			return nil, err
		}

		unitCost := input.UnitCost
		_, err = s.stockRepo.AppendTx(ctx, tx, stockmodel.AppendInput{
			ProductID:        input.ProductID,
			WarehouseID:      header.WarehouseID,
			Delta:            input.Quantity,
			Kind:             stockmodel.MovementPurchaseIn,
			DocKind:          stockmodel.DocPurchase,
			DocID:            &header.ID,
			LineID:           &line.ID,
			UnitCostSnapshot: &unitCost,
			Actor:            actor,
		})
		if err != nil {
			return nil, err
		}

		if overwriteCost {
			if err := s.productRepo.UpdateCostPriceTx(ctx, tx, input.ProductID, input.UnitCost); err != nil {
				return nil, err
			}
		}

		total = total.Add(line.LineTotal)
		built = append(built, line)
	}

	header.TotalAmount = total
	if err := s.repo.SetPurchaseTotalTx(ctx, tx, header); err != nil {
		return nil, err
	}
	return built, nil
}

func (s *documentService) PostSale(ctx context.Context, req model.PostSaleRequest, actor uuid.UUID) (*model.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("sale", err.Error())
	}
	lines := req.MergedLines()

	return postWithNumberRetry(ctx, s.db, req.InvoiceNumber, salePrefix,
		func(tx pgx.Tx, number string) (*model.Sale, error) {
			if ok, err := s.repo.CustomerExistsTx(ctx, tx, req.CustomerID); err != nil {
				return nil, err
			} else if !ok {
				return nil, apperr.NotFound("customer", req.CustomerID.String())
			}
			if ok, err := s.repo.WarehouseExistsTx(ctx, tx, req.WarehouseID); err != nil {
				return nil, err
			} else if !ok {
				return nil, apperr.NotFound("warehouse", req.WarehouseID.String())
			}

			header := &model.SaleHeader{
				InvoiceNumber: number,
				CustomerID:    &req.CustomerID,
				WarehouseID:   req.WarehouseID,
				Status:        model.StatusPosted,
				Notes:         req.Notes,
				CreatedBy:     actor,
			}
			if err := s.repo.CreateSaleHeaderTx(ctx, tx, header); err != nil {
				return nil, err
			}

			total := decimal.Zero
			built := make([]model.SaleLine, 0, len(lines))
			touched := make([]uuid.UUID, 0, len(lines))

			for _, input := range lines {
				product, err := s.productRepo.GetTx(ctx, tx, input.ProductID)
				if err != nil {
					return nil, err
				}
				if !product.IsActive {
					return nil, apperr.Validation("product", "product "+product.Code+" is inactive")
				}

				unitPrice := product.SellingPrice
				if input.UnitPrice != nil {
					unitPrice = *input.UnitPrice
				}

				line := model.SaleLine{
					HeaderID:         header.ID,
					ProductID:        input.ProductID,
					Quantity:         input.Quantity,
					UnitPrice:        unitPrice,
					UnitCostSnapshot: product.CostPrice,
					LineTotal:        unitPrice.Mul(decimal.NewFromInt(input.Quantity)),
				}
				if err := s.repo.CreateSaleLineTx(ctx, tx, &line); err != nil {
					return nil, err
				}

				snapshot := product.CostPrice
				_, err = s.stockRepo.AppendTx(ctx, tx, stockmodel.AppendInput{
					ProductID:        input.ProductID,
					WarehouseID:      header.WarehouseID,
					Delta:            -input.Quantity,
					Kind:             stockmodel.MovementSaleOut,
					DocKind:          stockmodel.DocSale,
					DocID:            &header.ID,
					LineID:           &line.ID,
					UnitCostSnapshot: &snapshot,
					Actor:            actor,
				})
				if err != nil {
					return nil, err
				}

				total = total.Add(line.LineTotal)
				built = append(built, line)
				touched = append(touched, input.ProductID)
			}

			header.TotalAmount = total
			if err := s.repo.SetSaleTotalTx(ctx, tx, header); err != nil {
				return nil, err
			}
			if err := s.checkAlerts(ctx, tx, touched); err != nil {
				return nil, err
			}

			return &model.Sale{SaleHeader: *header, Lines: built}, nil
		})
}

// checkAlerts runs the alert transition once per distinct touched product,
// inside the posting transaction.
func (s *documentService) checkAlerts(ctx context.Context, tx pgx.Tx, productIDs []uuid.UUID) error {
	for _, id := range model.TouchedProducts(productIDs) {
		view, err := s.productRepo.AlertViewTx(ctx, tx, id)
		if err != nil {
			return err
		}
		total, err := s.stockRepo.TotalOnHandTx(ctx, tx, id)
		if err != nil {
			return err
		}
		err = s.alerts.CheckProductTx(ctx, tx, alertservice.ProductState{
			ProductID:    view.ID,
			Code:         view.Code,
			ReorderLevel: view.ReorderLevel,
			TotalOnHand:  total,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *documentService) CancelPurchase(ctx context.Context, id, actor uuid.UUID) (*model.Purchase, error) {
	return postWithNumberRetry(ctx, s.db, "", cancelSalePrefix,
		func(tx pgx.Tx, number string) (*model.Purchase, error) {
			return s.cancelPurchaseTx(ctx, tx, id, actor, number)
		})
}

func (s *documentService) cancelPurchaseTx(ctx context.Context, tx pgx.Tx, id, actor uuid.UUID, number string) (*model.Purchase, error) {
	original, err := s.repo.GetPurchaseTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if original.IsCompensation {
		return nil, apperr.Conflict("purchase", "compensating documents cannot be cancelled")
	}
	if original.Status != model.StatusPosted {
		return nil, apperr.Conflict("purchase", "only POSTED documents can be cancelled")
	}

	// The compensator is an outbound document: the received quantities
	// leave stock again at the original unit cost.
	compensator := &model.SaleHeader{
		InvoiceNumber:         number,
		WarehouseID:           original.WarehouseID,
		Status:                model.StatusPosted,
		Notes:                 "Cancellation of " + original.ReferenceNumber,
		IsCompensation:        true,
		CompensatesPurchaseID: &original.ID,
		CreatedBy:             actor,
	}
	if err := s.repo.CreateSaleHeaderTx(ctx, tx, compensator); err != nil {
		return nil, err
	}

	total := decimal.Zero
	touched := make([]uuid.UUID, 0, len(original.Lines))
	for _, orig := range original.Lines {
		line := model.SaleLine{
			HeaderID:         compensator.ID,
			ProductID:        orig.ProductID,
			Quantity:         orig.Quantity,
			UnitPrice:        orig.UnitCost,
			UnitCostSnapshot: orig.UnitCost,
			LineTotal:        orig.LineTotal,
		}
		if err := s.repo.CreateSaleLineTx(ctx, tx, &line); err != nil {
			return nil, err
		}

		snapshot := orig.UnitCost
		_, err := s.stockRepo.AppendTx(ctx, tx, stockmodel.AppendInput{
			ProductID:        orig.ProductID,
			WarehouseID:      original.WarehouseID,
			Delta:            -orig.Quantity,
			Kind:             stockmodel.MovementSaleOut,
			DocKind:          stockmodel.DocSale,
			DocID:            &compensator.ID,
			LineID:           &line.ID,
			UnitCostSnapshot: &snapshot,
			Actor:            actor,
		})
		if err != nil {
			return nil, err
		}

		total = total.Add(line.LineTotal)
		touched = append(touched, orig.ProductID)
	}

	compensator.TotalAmount = total
	if err := s.repo.SetSaleTotalTx(ctx, tx, compensator); err != nil {
		return nil, err
	}
	if err := s.repo.MarkPurchaseCancelledTx(ctx, tx, original.ID, compensator.ID); err != nil {
		return nil, err
	}
	if err := s.checkAlerts(ctx, tx, touched); err != nil {
		return nil, err
	}

	original.Status = model.StatusCancelled
	original.CancelledBySaleID = &compensator.ID
	return original, nil
}

func (s *documentService) CancelSale(ctx context.Context, id, actor uuid.UUID) (*model.Sale, error) {
	return postWithNumberRetry(ctx, s.db, "", returnPrefix,
		func(tx pgx.Tx, number string) (*model.Sale, error) {
			return s.cancelSaleTx(ctx, tx, id, actor, number)
		})
}

func (s *documentService) cancelSaleTx(ctx context.Context, tx pgx.Tx, id, actor uuid.UUID, number string) (*model.Sale, error) {
	original, err := s.repo.GetSaleTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if original.IsCompensation {
		return nil, apperr.Conflict("sale", "compensating documents cannot be cancelled")
	}
	if original.Status != model.StatusPosted {
		return nil, apperr.Conflict("sale", "only POSTED documents can be cancelled")
	}

	// The compensator is an inbound document restoring the quantities at
	// their COGS snapshot; it never rewrites the product's cost price.
	compensator := &model.PurchaseHeader{
		ReferenceNumber:   number,
		WarehouseID:       original.WarehouseID,
		Status:            model.StatusPosted,
		Notes:             "Cancellation of " + original.InvoiceNumber,
		IsCompensation:    true,
		CompensatesSaleID: &original.ID,
		CreatedBy:         actor,
	}
	if err := s.repo.CreatePurchaseHeaderTx(ctx, tx, compensator); err != nil {
		return nil, err
	}

	inputs := make([]model.PurchaseLineInput, 0, len(original.Lines))
	touched := make([]uuid.UUID, 0, len(original.Lines))
	for _, orig := range original.Lines {
		inputs = append(inputs, model.PurchaseLineInput{
			ProductID: orig.ProductID,
			Quantity:  orig.Quantity,
			UnitCost:  orig.UnitCostSnapshot,
		})
		touched = append(touched, orig.ProductID)
	}
	if _, err := s.postPurchaseLines(ctx, tx, compensator, inputs, actor, false); err != nil {
		return nil, err
	}

	if err := s.repo.MarkSaleCancelledTx(ctx, tx, original.ID, compensator.ID); err != nil {
		return nil, err
	}
	if err := s.checkAlerts(ctx, tx, touched); err != nil {
		return nil, err
	}

	original.Status = model.StatusCancelled
	original.CancelledByPurchaseID = &compensator.ID
	return original, nil
}

func (s *documentService) GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	return s.repo.GetPurchase(ctx, id)
}

func (s *documentService) ListPurchases(ctx context.Context, filter model.ListFilter) ([]model.Purchase, int64, error) {
	filter = clampFilter(filter)
	return s.repo.ListPurchases(ctx, filter)
}

func (s *documentService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *documentService) ListSales(ctx context.Context, filter model.ListFilter) ([]model.Sale, int64, error) {
	filter = clampFilter(filter)
	return s.repo.ListSales(ctx, filter)
}

func clampFilter(f model.ListFilter) model.ListFilter {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
