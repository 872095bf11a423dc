// Package mongo connects to MongoDB with retries, for the postcard usage
// store.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg) // cfg.Database defaults to "postcard-app"
//	if err != nil {
//	    return err
//	}
//	coll := db.Collection(rategate.CollectionName)
//	if err := rategate.EnsureIndexes(ctx, coll); err != nil {
//	    return err
//	}
//	store := rategate.NewMongoStore(coll)
//	ready := mongo.Healthcheck(db.Client())
//
// Errors are sentinel values joined with the driver error; compare with
// errors.Is.
package mongo
