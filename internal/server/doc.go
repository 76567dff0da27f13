// Package server drives a World in real time and exposes it over HTTP.
//
// A [Driver] owns the world and ticks it at a fixed frame rate; every REST
// handler and websocket command goes through the driver's mutex. Frames are
// pushed to websocket clients as {"type":"frame","data":Frame}. Clients may
// send hold, move, release and state messages to drag bodies.
package server
