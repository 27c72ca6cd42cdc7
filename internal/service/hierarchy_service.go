package service

import (
	"milhier/internal/models"
	"milhier/internal/repository"
)

// HierarchyService assembles the unit tree with assigned soldiers
type HierarchyService struct {
	units    *repository.UnitRepository
	soldiers *repository.SoldierRepository
}

// NewHierarchyService creates a new hierarchy service
func NewHierarchyService(units *repository.UnitRepository, soldiers *repository.SoldierRepository) *HierarchyService {
	return &HierarchyService{units: units, soldiers: soldiers}
}

// Tree returns the root units of the hierarchy, each with its soldiers and
// subordinate units attached recursively. A unit whose parent no longer
// exists is treated as a root rather than dropped.
func (s *HierarchyService) Tree() ([]*models.UnitNode, error) {
	units, err := s.units.GetAll()
	if err != nil {
		return nil, err
	}
	soldiers, err := s.soldiers.GetAll()
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*models.UnitNode, len(units))
	for _, u := range units {
		nodes[u.UnitID] = &models.UnitNode{
			Unit:     u,
			Soldiers: []models.Soldier{},
			Subunits: []*models.UnitNode{},
		}
	}

	for _, sol := range soldiers {
		if node, ok := nodes[sol.UnitID]; ok {
			node.Soldiers = append(node.Soldiers, sol)
		}
	}

	var roots []*models.UnitNode
	for _, u := range units {
		node := nodes[u.UnitID]
		if u.ParentUnitID != nil {
			if parent, ok := nodes[*u.ParentUnitID]; ok {
				parent.Subunits = append(parent.Subunits, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots, nil
}
