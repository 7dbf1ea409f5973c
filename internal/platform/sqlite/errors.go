package sqlite

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskman-api/internal/store"
	"gorm.io/gorm"
)

// MapError maps a GORM error to the matching store error, keeping the
// original error in the chain. It relies on gorm.Config.TranslateError.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	}
	return err
}
