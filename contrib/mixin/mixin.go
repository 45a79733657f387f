// Package mixin provides common mixin implementations for fabrica factories.
//
// These mixins are OPTIONAL and provided as convenient starting points.
// Users are encouraged to create their own mixins tailored to their needs.
//
// Available mixins:
//   - CreateTime: Adds created_at timestamp field
//   - UpdateTime: Adds updated_at timestamp field
//   - Time: Combines CreateTime and UpdateTime
//   - UUID: Adds a uuid field drawn from the factory provider
//   - SoftDelete: Adds deleted_at field for soft deletion
//   - TenantID: Adds tenant_id field for multi-tenancy
//   - TimeSoftDelete: Combines Time and SoftDelete
//
// Usage:
//
//	import "github.com/syssam/fabrica/contrib/mixin"
//
//	func (UserFactory) Mixin() []fabrica.Mixin {
//	    return []fabrica.Mixin{
//	        mixin.Time{},
//	        mixin.SoftDelete{},
//	    }
//	}
//
// Custom mixins:
//
// For project-specific needs, define your own mixins:
//
//	type auditMixin struct{}
//
//	func (auditMixin) Definition(gen *faker.Faker) []fabrica.Field {
//	    return []fabrica.Field{
//	        fabrica.Value("created_by", gen.Username()),
//	        fabrica.Value("updated_by", gen.Username()),
//	    }
//	}
package mixin

import (
	"time"

	"github.com/syssam/fabrica"
	"github.com/syssam/fabrica/faker"
)

// CreateTime adds a created_at time field. The value is drawn at build
// time, so every instance of a batch carries its own timestamp.
type CreateTime struct{}

// Definition of the create time mixin.
func (CreateTime) Definition(*faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Lazy("created_at", func() any { return time.Now().UTC() }),
	}
}

// create time mixin must implement `Mixin` interface.
var _ fabrica.Mixin = (*CreateTime)(nil)

// UpdateTime adds an updated_at time field.
type UpdateTime struct{}

// Definition of the update time mixin.
func (UpdateTime) Definition(*faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Lazy("updated_at", func() any { return time.Now().UTC() }),
	}
}

// update time mixin must implement `Mixin` interface.
var _ fabrica.Mixin = (*UpdateTime)(nil)

// Time composes CreateTime and UpdateTime mixins.
// Provides both created_at and updated_at fields.
//
// This is the most common mixin for tracking entity timestamps.
type Time struct{}

// Definition of the time mixin.
func (Time) Definition(gen *faker.Faker) []fabrica.Field {
	return append(
		CreateTime{}.Definition(gen),
		UpdateTime{}.Definition(gen)...,
	)
}

// time mixin must implement `Mixin` interface.
var _ fabrica.Mixin = (*Time)(nil)

// UUID adds a uuid field holding an external identifier. The value comes
// from the factory provider, so seeded clients reproduce it across runs.
//
// Layers keep owning the primary identity; this field is for the public
// identifier column many schemas carry alongside it.
type UUID struct{}

// Definition of the UUID mixin.
func (UUID) Definition(gen *faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Value("uuid", gen.UUID()),
	}
}

// uuid mixin must implement `Mixin` interface.
var _ fabrica.Mixin = (*UUID)(nil)

// SoftDelete adds a deleted_at field for soft deletion. Seeded instances
// start alive: the field is present and nil, matching a NULL column.
//
// To seed already-deleted rows, override it per build:
//
//	factory.Create(ctx, fabrica.Overrides{"deleted_at": time.Now().UTC()})
type SoftDelete struct{}

// Definition of the SoftDelete mixin.
func (SoftDelete) Definition(*faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Value("deleted_at", nil),
	}
}

// soft delete mixin must implement `Mixin` interface.
var _ fabrica.Mixin = (*SoftDelete)(nil)

// TenantID adds a tenant_id field for multi-tenancy support.
//
// Fixtures usually live inside one tenant, so a fixed Tenant value is the
// common case. Left empty, every instance draws its own identifier:
//
//	func (UserFactory) Mixin() []fabrica.Mixin {
//	    return []fabrica.Mixin{
//	        mixin.TenantID{Tenant: "acme"},
//	    }
//	}
type TenantID struct {
	// Tenant fixes the seeded tenant identifier. Empty draws a fresh
	// identifier from the provider per instance.
	Tenant string
}

// Definition of the TenantID mixin.
func (m TenantID) Definition(gen *faker.Faker) []fabrica.Field {
	tenant := m.Tenant
	if tenant == "" {
		tenant = gen.UUID()
	}
	return []fabrica.Field{
		fabrica.Value("tenant_id", tenant),
	}
}

// tenant id mixin must implement `Mixin` interface.
var _ fabrica.Mixin = (*TenantID)(nil)

// TimeSoftDelete composes Time and SoftDelete mixins.
// Provides created_at, updated_at, and deleted_at fields.
//
// This is useful for entities that need full audit trail with soft deletion.
type TimeSoftDelete struct{}

// Definition of the TimeSoftDelete mixin.
func (TimeSoftDelete) Definition(gen *faker.Faker) []fabrica.Field {
	return append(
		Time{}.Definition(gen),
		SoftDelete{}.Definition(gen)...,
	)
}

// time soft delete mixin must implement `Mixin` interface.
var _ fabrica.Mixin = (*TimeSoftDelete)(nil)
