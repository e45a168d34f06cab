// Package leadscout collects business leads from the public web.
// It discovers listing URLs on a search surface, extracts each listing's
// detail page in bounded parallel batches, and enriches listings with
// contact details mined from their websites.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package leadscout
