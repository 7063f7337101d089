package services

import (
	"errors"
	"fmt"
	"log"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// Lineage groups the relatives of a mother
type Lineage struct {
	Mother      models.Mother   `json:"mother"`
	Ancestors   []models.Mother `json:"ancestors"`   // nearest first
	Descendants []models.Mother `json:"descendants"` // direct daughters only
	Siblings    []models.Mother `json:"siblings"`    // same non-null ancestor, excluding the mother
}

// ancestorWalkBound limits an ancestor walk to the number of mother rows plus one.
// A longer walk can only revisit a row, which means the links are cyclic.
func ancestorWalkBound(db *gorm.DB) (int, error) {
	var total int64
	if err := db.Model(&models.Mother{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count mothers: %w", err)
	}
	return int(total) + 1, nil
}

// Ancestors follows ancestor links upward from motherID, nearest first.
// Returns a DataIntegrityError instead of looping when the links form a cycle.
func Ancestors(db *gorm.DB, motherID uint) ([]models.Mother, error) {
	var start models.Mother
	if err := db.First(&start, motherID).Error; err != nil {
		return nil, lookupError(err, "mother not available")
	}

	bound, err := ancestorWalkBound(db)
	if err != nil {
		return nil, err
	}

	ancestors := []models.Mother{}
	seen := map[uint]struct{}{start.ID: {}}
	next := start.AncestorID

	for depth := 0; next != nil; depth++ {
		if depth >= bound {
			return nil, lineageCycle(start.ID)
		}
		if _, ok := seen[*next]; ok {
			return nil, lineageCycle(start.ID)
		}

		var ancestor models.Mother
		if err := db.First(&ancestor, *next).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Dangling link: the chain ends here
				break
			}
			return nil, fmt.Errorf("failed to load ancestor: %w", err)
		}

		seen[ancestor.ID] = struct{}{}
		ancestors = append(ancestors, ancestor)
		next = ancestor.AncestorID
	}

	return ancestors, nil
}

func lineageCycle(motherID uint) error {
	Metrics.LineageIntegrityError()
	log.Printf("[LINEAGE] Ancestor cycle detected starting at mother %d", motherID)
	return dataIntegrity(fmt.Sprintf("ancestor chain of mother %d is cyclic", motherID))
}

// Descendants returns the mothers whose ancestor is motherID. Only direct daughters
// are returned; the walk is not transitive.
func Descendants(db *gorm.DB, motherID uint) ([]models.Mother, error) {
	descendants := []models.Mother{}
	err := db.Where("ancestor_id = ?", motherID).Order("id ASC").Find(&descendants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load descendants: %w", err)
	}
	return descendants, nil
}

// Siblings returns the mothers sharing the same non-null ancestor, excluding the mother itself
func Siblings(db *gorm.DB, mother *models.Mother) ([]models.Mother, error) {
	siblings := []models.Mother{}
	if mother.AncestorID == nil {
		return siblings, nil
	}
	err := db.Where("ancestor_id = ? AND id <> ?", *mother.AncestorID, mother.ID).
		Order("id ASC").
		Find(&siblings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load siblings: %w", err)
	}
	return siblings, nil
}

// GetLineage resolves ancestors, descendants and siblings of an owned mother
func GetLineage(db *gorm.DB, motherID, ownerID uint) (*Lineage, error) {
	mother, err := findOwnedMother(db, motherID, ownerID)
	if err != nil {
		return nil, err
	}

	ancestors, err := Ancestors(db, mother.ID)
	if err != nil {
		return nil, err
	}
	descendants, err := Descendants(db, mother.ID)
	if err != nil {
		return nil, err
	}
	siblings, err := Siblings(db, mother)
	if err != nil {
		return nil, err
	}

	return &Lineage{
		Mother:      *mother,
		Ancestors:   ancestors,
		Descendants: descendants,
		Siblings:    siblings,
	}, nil
}

// checkAncestorAssignment rejects an ancestor that would close a cycle: the mother
// itself, or any mother that already has motherID above it in its chain.
func checkAncestorAssignment(db *gorm.DB, motherID, ancestorID uint) error {
	if motherID == ancestorID {
		return validation("a mother cannot be her own ancestor")
	}

	bound, err := ancestorWalkBound(db)
	if err != nil {
		return err
	}

	seen := map[uint]struct{}{}
	current := &ancestorID
	for depth := 0; current != nil; depth++ {
		if *current == motherID {
			return validation("the selected ancestor is a descendant of this mother")
		}
		if _, ok := seen[*current]; ok || depth >= bound {
			return lineageCycle(ancestorID)
		}
		seen[*current] = struct{}{}

		var m models.Mother
		if err := db.Select("id", "ancestor_id").First(&m, *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load ancestor: %w", err)
		}
		current = m.AncestorID
	}
	return nil
}
