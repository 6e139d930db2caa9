// Package main provides the entry point of articlegate, a JSON API for managing articles
// behind role based access control. Users sign in with email and password and receive
// a short lived access token and a refresh token. Each role grants a subset of the
// permissions create, edit, delete, publish and view, and every article route checks
// the permission it needs against the role stored in the database.
package main
