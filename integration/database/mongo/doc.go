// Package mongo provides MongoDB client initialization and the user store
// adapter backing credential verification.
//
// Connect wraps the official driver with application-level retry, which
// absorbs Atlas cold starts and brief network interruptions during startup:
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(ctx)
//
//	store := mongo.NewUserStore(client.Database(cfg.Database))
//	verifier := identity.NewVerifier(store)
//
// The user store reads the registration system's existing users collection;
// this module never writes to it.
package mongo
