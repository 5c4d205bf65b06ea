// This package provides a set of structs and functions which are used
// to answer a simple question: is it windy where the caller is right
// now?
//
// windlib is a core of the isitwindy project. The rest of the
// application is a wiring of this library: how to read a config, which
// providers to use, how to log events.
//
// Windy is a main entity of the windlib. It takes an IP address,
// geolocates it with a Geolocator, asks a WeatherProvider about wind
// conditions at those coordinates and returns a Report. Failures never
// escape as errors: each part of the Report carries its own success
// flag and a message.
//
// Windy also acts as http.Handler. GET or POST on / returns a Report for
// the caller, GET on /stats returns usage statistics of providers.
package windlib
