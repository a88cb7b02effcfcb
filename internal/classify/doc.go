// Package classify recognises the sentinel-delimited messages that Lua
// scripts write into the host application's log and turns them into stream
// events.
//
// A print message is the first non-greedy capture between |LUA|PRINT| and
// |PRINT|LUA|; an error message uses the ERROR markers. Print is checked
// first, so a line carrying both kinds is always reported as a print.
// Lines without markers produce no event.
//
// Events render to a single server-sent-event frame via Event.Frame.
package classify
