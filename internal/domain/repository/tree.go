package repository

import "github.com/hapkiduki/cart-products/internal/domain/entity"

// SortByUIDs orders products like ids. Products whose ID is not in ids are
// dropped; IDs without a product are skipped.
func SortByUIDs(products []*entity.Product, ids []uint) []*entity.Product {
	byID := make(map[uint]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	sorted := make([]*entity.Product, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		sorted = append(sorted, p)
	}
	return sorted
}

// DescendantCategories walks the category tree breadth first and returns the
// root followed by all of its descendants. It returns nil if the root is not
// among categories.
func DescendantCategories(categories []*entity.Category, rootID uint) []*entity.Category {
	children := make(map[uint][]*entity.Category)
	var root *entity.Category
	for _, c := range categories {
		if c.ID == rootID {
			root = c
			continue
		}
		children[c.ParentID] = append(children[c.ParentID], c)
	}
	if root == nil {
		return nil
	}

	result := []*entity.Category{root}
	visited := map[uint]bool{root.ID: true}
	for i := 0; i < len(result); i++ {
		for _, child := range children[result[i].ID] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			result = append(result, child)
		}
	}
	return result
}

// CategoryIDs returns the IDs of categories.
func CategoryIDs(categories []*entity.Category) []uint {
	ids := make([]uint, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// PageTreeIDs returns pid followed by the IDs of its descendant pages, at
// most depth levels deep. A depth of 0 returns only pid.
func PageTreeIDs(pages []entity.Page, pid uint, depth int) []uint {
	children := make(map[uint][]uint)
	for _, p := range pages {
		if p.ID == p.Pid {
			continue
		}
		children[p.Pid] = append(children[p.Pid], p.ID)
	}

	ids := []uint{pid}
	level := []uint{pid}
	visited := map[uint]bool{pid: true}
	for d := 0; d < depth && len(level) > 0; d++ {
		var next []uint
		for _, id := range level {
			for _, child := range children[id] {
				if visited[child] {
					continue
				}
				visited[child] = true
				next = append(next, child)
			}
		}
		ids = append(ids, next...)
		level = next
	}
	return ids
}
