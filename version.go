package inkstitch

// Version identifies this build in bug reports.
const Version = "inkstitch v0.3.0"
