package eunoia

// Version is the current release of eunoia.
const Version = "0.1.0"
