// Package qtempo turns INS Tempo-Online statistical query responses into
// typed matrices and joins them to administrative boundary polygons.
//
// The pipeline is: a raw delimited payload plus its query parameters go
// through ParseResponse into a Matrix; the Matrix is pivoted with GroupBy
// into a geography-indexed wide table; Join matches the pivoted rows
// against polygons fetched from a BoundaryProvider (see the service
// package) and produces a JoinedDataset ready to render as a GeoJSON map
// layer.
//
// All matrix operations are pure and in-memory; only the tempo and
// service packages perform network I/O.
package qtempo
