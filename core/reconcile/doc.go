// Package reconcile binds local users to pre-existing payment provider customers.
//
// The package has three parts:
//
//  1. Resolver: looks a customer up by exact email. Provider failures are logged and
//     treated as "no match", and each resolution makes at most one provider call.
//
//  2. Engine: applies the policy for every trigger.
//
//     - SyncAll / SyncRecent: page through users in ID order and map only users without
//     a mapping. Mapped users cost no provider call, so a repeated pass is idempotent.
//     - OnUserCreated: resolve unconditionally and store on a hit.
//     - OnEmailChanged: resolve the new email; a hit overwrites, a miss deletes.
//     - Resync: forced re-resolution; a miss keeps the current mapping.
//     - Lookup: the per-email path behind the admin lookup tools.
//
//  3. Dispatcher: turns typed lifecycle events (UserCreated, ProviderCustomerCreated,
//     ProfileUpdated) into engine calls.
//
// A customer is never created. Users that are not present at the provider simply stay
// unmapped, which is a normal terminal state.
//
// # Usage Example
//
//	resolver := reconcile.NewResolver(stripeClient, cfg.Stripe.Timeout(), logger)
//	engine := reconcile.NewEngine(store, reconcile.NewPlatformMapping(store), resolver, cfg.Sync, logger,
//	    reconcile.WithGuard(lock.NewGuard(nil, logger)))
//
//	summary, err := engine.SyncAll(ctx)
//
//	dispatcher := reconcile.NewDispatcher(engine, logger)
//	outcome, err := dispatcher.Dispatch(ctx, reconcile.ProfileUpdated{UserID: 7, Old: old, New: updated})
package reconcile
