// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain aggregates so the domain layer carries
// no ORM tags; each model converts to and from its aggregate with ToDomain and
// a XModelFromDomain constructor.
//
//   - base.go: BaseModel and AggregateModel (version token and audit columns)
//   - partner.go: carriers, customers, sellers
//   - trade.go: orders
//   - delivery.go: delivery notes
//   - finance.go: invoices and payment orders
//   - identity.go: users and notifications
package models
