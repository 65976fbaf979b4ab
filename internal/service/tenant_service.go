package service

import (
	"fmt"
	"strings"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/security"
)

const (
	defaultFamilyName = "My Family"
	defaultMemberName = "Me"
)

// FamilyStore provides the family lookups tenant resolution needs
type FamilyStore interface {
	GetByExternalID(externalID string) (*models.Family, error)
	CreateWithDefaultMember(externalID, familyName, memberName string) (*models.Family, error)
}

// TenantService maps identity-provider subjects to families, provisioning a
// family with a default parent member the first time a subject is seen.
type TenantService struct {
	families FamilyStore
	locks    *security.KeyedMutex
}

// NewTenantService creates a new tenant service
func NewTenantService(families FamilyStore) *TenantService {
	return &TenantService{
		families: families,
		locks:    security.NewKeyedMutex(time.Hour),
	}
}

// Resolve returns the family for an identity subject, creating it on first
// sight. Concurrent first requests for the same subject resolve to a single
// family: a per-subject lock serializes them in-process, and the unique
// constraint on external_id catches provisioning races across processes, in
// which case the existing row is re-read.
func (s *TenantService) Resolve(externalID string) (*models.Family, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("%w: missing identity subject", ErrValidation)
	}

	family, err := s.families.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if family != nil {
		return family, nil
	}

	unlock := s.locks.Lock(externalID)
	defer unlock()

	// Another request may have provisioned while we waited for the lock.
	family, err = s.families.GetByExternalID(externalID)
	if err != nil {
		return nil, err
	}
	if family != nil {
		return family, nil
	}

	family, err = s.families.CreateWithDefaultMember(externalID, defaultFamilyName, defaultMemberName)
	if err != nil {
		// A concurrent process may have won the insert.
		if existing, selErr := s.families.GetByExternalID(externalID); selErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return family, nil
}
