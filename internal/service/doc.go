// Package service contains the application use cases. It coordinates the
// domain types with the persistence interfaces in internal/store and the
// listing cache in internal/cache.
//
// Every operation receives the acting user's ID as an explicit argument;
// the service never looks up an ambient "current user". Account and token
// handling lives in the auth subpackage.
package service
