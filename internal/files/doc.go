// Package files provides filesystem scanning utilities for the extraction
// pipeline.
//
// WalkFiles enumerates every regular file beneath a root directory, which is
// how DICOM candidates are discovered (CBCT exports frequently have no file
// extension, so every file is a candidate). Counter counts the files in an
// examination folder, with memoization, to recover the slice count that the
// Planmeca ProMax does not record in its headers.
package files
