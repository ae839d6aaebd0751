package version

// Version is the version of the lakeport-go module. It is reported to the
// Lakeport API in the User-Agent header of every request.
var Version = "0.1.0"
