// Package catalog implements the farm/sector/equipment inventory feature.
//
// It is the read-only collaborator the sync reconciler validates against:
// sectors and equipment are resolved by id, and an equipment item is only
// valid for a sector when both belong to the same farm.
//
// # Components
//
//   - Service: Catalog lookups with LRU caching and batched IN queries,
//     plus thin admin CRUD for farms, sectors, and equipment.
//   - Handler: REST endpoints under /farms, /sectors, /equipment.
//   - Loader: Registers the feature with the application.
package catalog
