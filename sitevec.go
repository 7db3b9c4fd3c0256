// Package sitevec ingests a website into a similarity-searchable vector index.
// It crawls same-domain pages breadth-first, splits page text into overlapping
// sentence-bounded chunks, embeds every chunk through an external embedding
// service and stores the vectors next to their chunk metadata.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gemini/, fs/).
package sitevec
