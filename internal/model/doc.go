package model

// Package model defines the value types passed between the shell, the download
// facade and the engine: requests, metadata snapshots, results and playlist
// listings. Values are constructed per call and never persisted.
