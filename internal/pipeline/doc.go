// Package pipeline orchestrates one extraction run.
//
// A run is three sequential stages with no feedback loops: discover every
// regular file under the input directory and parse it as a DICOM header,
// filter and normalize the accepted records, and export the deduplicated
// examination set as a table. Files that fail to parse, derived images, and
// records missing their series UID or manufacturer are skipped and counted;
// nothing per-file aborts the run.
package pipeline
