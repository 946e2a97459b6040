// Package repositories holds every query and command issued against the
// fitplan schema. Lookups report errs.ErrNotFound instead of returning nil
// rows, and writes that belong together share one transaction.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ratingRule      = "gte=0,lte=5"
	nonNegativeRule = "gte=0"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// validateModel runs the struct's validate tags and reports the first failure
// as a check violation on the offending column.
func validateModel(model any) error {
	err := validate.Struct(model)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errs.Check(fe.Field(), fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return err
}

// fieldRules maps an integer column to the validator tag its new value must
// satisfy in a partial update.
type fieldRules map[string]string

func (r fieldRules) check(fields map[string]any) error {
	for column, value := range fields {
		rule, ok := r[column]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		case float32:
			if !isWhole(float64(v)) {
				return errs.Check(column, "must be a whole number")
			}
		case float64:
			if !isWhole(v) {
				return errs.Check(column, "must be a whole number")
			}
		default:
			return errs.Check(column, "must be a number")
		}
		if err := validate.Var(value, rule); err != nil {
			return errs.Check(column, fmt.Sprintf("%v does not satisfy %s", value, rule))
		}
	}
	return nil
}

func isWhole(v float64) bool {
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}

func create(ctx context.Context, db *gorm.DB, model any) error {
	if err := validateModel(model); err != nil {
		return err
	}
	return errs.FromDB(db.WithContext(ctx).Create(model).Error)
}

func firstWhere[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		return nil, errs.FromDB(err)
	}
	return &row, nil
}

// updateWhere applies fields to the row matching query and returns it as
// stored afterwards. A missing row yields errs.ErrNotFound and no write.
func updateWhere[T any](ctx context.Context, db *gorm.DB, rules fieldRules, fields map[string]any, query string, args ...any) (*T, error) {
	if err := rules.check(fields); err != nil {
		return nil, err
	}

	var row T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(query, args...).First(&row).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(fields).Error; err != nil {
			return err
		}
		// Reload by primary key; the update may have changed the lookup column.
		return tx.First(&row).Error
	})
	if err != nil {
		return nil, errs.FromDB(err)
	}
	return &row, nil
}

// deleteWhere removes the row matching query and returns it.
func deleteWhere[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(query, args...).First(&row).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
	if err != nil {
		return nil, errs.FromDB(err)
	}
	return &row, nil
}
