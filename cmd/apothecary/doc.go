// Command apothecary runs the potion catalog API and its maintenance
// subcommands:
//
//	apothecary serve        start the HTTP server
//	apothecary route:list   print the route table
//	apothecary db:seed      insert a demo user and sample potions
//	apothecary db:index     ensure MongoDB indexes
//
// Configuration comes from config/app.json, .env and the environment;
// see the config package for the full key list.
package main
