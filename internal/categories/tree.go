package category

import (
	"sort"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
)

// Flatten orders categories depth-first: every parent immediately precedes
// its descendants, siblings sort by display order ascending with input order
// breaking ties. Categories pointing at a missing parent are treated as
// roots, and a visited set keeps malformed parent cycles from recursing
// forever.
func Flatten(categories []models.Category) []models.Category {
	index := make(map[uuid.UUID]struct{}, len(categories))
	for _, cat := range categories {
		index[cat.ID] = struct{}{}
	}

	children := make(map[uuid.UUID][]models.Category)
	var roots []models.Category
	for _, cat := range categories {
		if cat.ParentCategoryID == nil {
			roots = append(roots, cat)
			continue
		}
		if _, ok := index[*cat.ParentCategoryID]; !ok {
			roots = append(roots, cat)
			continue
		}
		children[*cat.ParentCategoryID] = append(children[*cat.ParentCategoryID], cat)
	}

	sortSiblings(roots)
	for parentID := range children {
		sortSiblings(children[parentID])
	}

	ordered := make([]models.Category, 0, len(categories))
	visited := make(map[uuid.UUID]struct{}, len(categories))

	var walk func(cat models.Category)
	walk = func(cat models.Category) {
		if _, seen := visited[cat.ID]; seen {
			return
		}
		visited[cat.ID] = struct{}{}
		ordered = append(ordered, cat)
		for _, child := range children[cat.ID] {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}

	// Categories trapped in a cycle are unreachable from any root; append
	// them in input order so nothing silently disappears.
	if len(ordered) < len(categories) {
		for _, cat := range categories {
			if _, seen := visited[cat.ID]; !seen {
				visited[cat.ID] = struct{}{}
				ordered = append(ordered, cat)
			}
		}
	}

	return ordered
}

// DirectChildren returns the immediate subcategories of a parent sorted by
// display order.
func DirectChildren(categories []models.Category, parentID uuid.UUID) []models.Category {
	var out []models.Category
	for _, cat := range categories {
		if cat.ParentCategoryID != nil && *cat.ParentCategoryID == parentID {
			out = append(out, cat)
		}
	}
	sortSiblings(out)
	return out
}

// SubtreeIDs returns the ids of a category and all of its descendants in
// depth-first order. The cycle guard mirrors Flatten.
func SubtreeIDs(categories []models.Category, rootID uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]models.Category)
	for _, cat := range categories {
		if cat.ParentCategoryID != nil {
			children[*cat.ParentCategoryID] = append(children[*cat.ParentCategoryID], cat)
		}
	}
	for parentID := range children {
		sortSiblings(children[parentID])
	}

	ids := make([]uuid.UUID, 0, 1)
	visited := make(map[uuid.UUID]struct{})

	var walk func(id uuid.UUID)
	walk = func(id uuid.UUID) {
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}
		ids = append(ids, id)
		for _, child := range children[id] {
			walk(child.ID)
		}
	}
	walk(rootID)

	return ids
}

func sortSiblings(siblings []models.Category) {
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].DisplayOrder < siblings[j].DisplayOrder
	})
}
