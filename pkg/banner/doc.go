// Package banner defines the banner data model and the state store that
// owns it: the dimension registry, speaker records, schedule fields, brand
// styling, and the template variant derived from the speaker count.
//
// # Architecture
//
// The [Store] is the single source of truth. All mutation goes through its
// operations (UpdateField, UpdateSpeaker, UpdateSpeakerCount,
// UpdateDimension, Reset), each of which installs a new immutable snapshot.
// Renderers and the export pipeline only ever see value copies obtained via
// [Store.Snapshot].
//
// The template variant is never set directly: it is always the pure
// function [SelectVariant] of the speaker count, and the two change
// together in a single atomic transition.
//
// # Usage
//
//	store := banner.NewStore(logger)
//	store.UpdateField(banner.FieldTitle, "Scaling Postgres to 1M QPS")
//	store.UpdateSpeakerCount(2) // variant becomes VariantDuo
//	state := store.Snapshot()
package banner
