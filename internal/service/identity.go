package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"doctor_signage/internal/models"
	"doctor_signage/internal/repository"
)

// ErrStorageUnavailable is returned when the KV backend cannot be read or written.
var ErrStorageUnavailable = errors.New("storage unavailable")

// IDGenerator returns a candidate device id in [MinDeviceID, MaxDeviceID].
type IDGenerator func() (int, error)

// RandomDeviceID draws uniformly from [MinDeviceID, MaxDeviceID].
func RandomDeviceID() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(models.MaxDeviceID-models.MinDeviceID+1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + models.MinDeviceID, nil
}

// IdentityService owns the device id and the cached hospital details.
type IdentityService struct {
	kv       repository.KVStore
	generate IDGenerator
}

func NewIdentityService(kv repository.KVStore) *IdentityService {
	return &IdentityService{kv: kv, generate: RandomDeviceID}
}

// WithGenerator replaces the id source (tests).
func (s *IdentityService) WithGenerator(gen IDGenerator) *IdentityService {
	s.generate = gen
	return s
}

// GetOrCreateDeviceID returns the persisted id, or generates and persists a new
// one. A persisted value that is not a 6 digit code is replaced.
func (s *IdentityService) GetOrCreateDeviceID(ctx context.Context) (models.DeviceIdentity, error) {
	raw, found, err := s.kv.Get(ctx, models.KeyDeviceID)
	if err != nil {
		return models.DeviceIdentity{}, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, models.KeyDeviceID, err)
	}
	if found {
		if id := (models.DeviceIdentity{ID: raw}); id.Valid() {
			return id, nil
		}
	}

	n, err := s.generate()
	if err != nil {
		return models.DeviceIdentity{}, fmt.Errorf("generate device id: %w", err)
	}
	id := models.DeviceIdentity{ID: strconv.Itoa(n)}
	if !id.Valid() {
		return models.DeviceIdentity{}, fmt.Errorf("generated device id %q out of range", id.ID)
	}
	if err := s.kv.Set(ctx, models.KeyDeviceID, id.ID); err != nil {
		return models.DeviceIdentity{}, fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, models.KeyDeviceID, err)
	}
	return id, nil
}

// CachedHospitalDetails returns the last stored details and their raw form.
// found is false when nothing was stored or the stored value does not parse.
func (s *IdentityService) CachedHospitalDetails(ctx context.Context) (models.HospitalDetails, string, bool, error) {
	raw, found, err := s.kv.Get(ctx, models.KeyHospitalDetails)
	if err != nil {
		return models.HospitalDetails{}, "", false, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, models.KeyHospitalDetails, err)
	}
	if !found {
		return models.HospitalDetails{}, "", false, nil
	}
	details, err := models.ParseHospitalDetails(raw)
	if err != nil {
		return models.HospitalDetails{}, "", false, nil
	}
	return details, raw, true, nil
}

func (s *IdentityService) SaveHospitalDetails(ctx context.Context, details models.HospitalDetails) error {
	if err := s.kv.Set(ctx, models.KeyHospitalDetails, details.Serialize()); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, models.KeyHospitalDetails, err)
	}
	return nil
}
