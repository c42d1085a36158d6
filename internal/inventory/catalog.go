package inventory

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"go.uber.org/zap"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type CategoryInput struct {
	Name        string
	Description string
	Color       string
}

// CategoryPatch changes the non-nil fields of a category.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
	Active      *bool
}

type SupplierInput struct {
	Name    string
	Contact string
	Phone   string
	Email   string
	Address string
}

type SupplierPatch struct {
	Name    *string
	Contact *string
	Phone   *string
	Email   *string
	Address *string
	Active  *bool
}

func validateName(errs ValidationErrors, field string, name *string) ValidationErrors {
	if name != nil && strings.TrimSpace(*name) == "" {
		errs = append(errs, FieldError{Field: field, Description: "name is required"})
	}
	return errs
}

func validateColor(errs ValidationErrors, color *string) ValidationErrors {
	if color != nil && *color != "" && !colorPattern.MatchString(*color) {
		errs = append(errs, FieldError{Field: "color", Description: "color must look like #RRGGBB"})
	}
	return errs
}

func validateEmail(errs ValidationErrors, email *string) ValidationErrors {
	if email == nil || strings.TrimSpace(*email) == "" {
		return errs
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(*email)); err != nil {
		errs = append(errs, FieldError{Field: "email", Description: "invalid email address"})
	}
	return errs
}

func duplicateName(err error) error {
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return ErrDuplicateName
	}
	return err
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	var errs ValidationErrors
	errs = validateName(errs, "nombre", &in.Name)
	errs = validateColor(errs, &in.Color)
	if err := errs.orNil(); err != nil {
		return models.Category{}, err
	}
	if in.Color == "" {
		in.Color = models.DefaultCategoryColor
	}

	c, err := s.store.Repos().Categories.Create(ctx, models.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Color:       in.Color,
		Active:      true,
		CreatedAt:   s.now(),
	})
	return c, duplicateName(err)
}

func (s *Service) UpdateCategory(ctx context.Context, id int, patch CategoryPatch) (models.Category, error) {
	var errs ValidationErrors
	errs = validateName(errs, "nombre", patch.Name)
	errs = validateColor(errs, patch.Color)
	if err := errs.orNil(); err != nil {
		return models.Category{}, err
	}

	var updated models.Category
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		c, err := r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			c.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			c.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Color != nil && *patch.Color != "" {
			c.Color = *patch.Color
		}
		if patch.Active != nil {
			c.Active = *patch.Active
		}
		updated, err = r.Categories.Update(ctx, c)
		return duplicateName(err)
	})
	return updated, err
}

// DeleteCategory removes a category nothing refers to and deactivates any other.
func (s *Service) DeleteCategory(ctx context.Context, id int) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		c, err := r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !c.Active {
			outcome = AlreadyInactive
			return nil
		}
		n, err := r.Products.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			outcome = Deleted
			return r.Categories.Delete(ctx, id)
		}
		c.Active = false
		outcome = Deactivated
		_, err = r.Categories.Update(ctx, c)
		return err
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("category deleted", zap.Int("category_id", id), zap.String("outcome", string(outcome)))
	return outcome, nil
}

func (s *Service) GetCategory(ctx context.Context, id int) (models.Category, error) {
	return s.store.Repos().Categories.GetByID(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return s.store.Repos().Categories.List(ctx, activeOnly)
}

func (s *Service) CreateSupplier(ctx context.Context, in SupplierInput) (models.Supplier, error) {
	var errs ValidationErrors
	errs = validateName(errs, "nombre", &in.Name)
	errs = validateEmail(errs, &in.Email)
	if err := errs.orNil(); err != nil {
		return models.Supplier{}, err
	}

	sup, err := s.store.Repos().Suppliers.Create(ctx, models.Supplier{
		Name:      strings.TrimSpace(in.Name),
		Contact:   strings.TrimSpace(in.Contact),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: s.now(),
	})
	return sup, duplicateName(err)
}

func (s *Service) UpdateSupplier(ctx context.Context, id int, patch SupplierPatch) (models.Supplier, error) {
	var errs ValidationErrors
	errs = validateName(errs, "nombre", patch.Name)
	errs = validateEmail(errs, patch.Email)
	if err := errs.orNil(); err != nil {
		return models.Supplier{}, err
	}

	var updated models.Supplier
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		sup, err := r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			sup.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Contact != nil {
			sup.Contact = strings.TrimSpace(*patch.Contact)
		}
		if patch.Phone != nil {
			sup.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.Email != nil {
			sup.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
		}
		if patch.Address != nil {
			sup.Address = strings.TrimSpace(*patch.Address)
		}
		if patch.Active != nil {
			sup.Active = *patch.Active
		}
		updated, err = r.Suppliers.Update(ctx, sup)
		return duplicateName(err)
	})
	return updated, err
}

// DeleteSupplier removes a supplier nothing refers to and deactivates any other.
func (s *Service) DeleteSupplier(ctx context.Context, id int) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		sup, err := r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !sup.Active {
			outcome = AlreadyInactive
			return nil
		}
		n, err := r.Products.CountBySupplier(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			outcome = Deleted
			return r.Suppliers.Delete(ctx, id)
		}
		sup.Active = false
		outcome = Deactivated
		_, err = r.Suppliers.Update(ctx, sup)
		return err
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("supplier deleted", zap.Int("supplier_id", id), zap.String("outcome", string(outcome)))
	return outcome, nil
}

func (s *Service) GetSupplier(ctx context.Context, id int) (models.Supplier, error) {
	return s.store.Repos().Suppliers.GetByID(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	return s.store.Repos().Suppliers.List(ctx, activeOnly)
}
