// Package normalize corrects known per-device header quirks before records
// enter the examination set.
//
// Dispatch is a case-sensitive substring match against the trimmed
// manufacturer attribute, and at most one rule fires per record:
//
//   - "Morita": the Accuitomo 170 stores the DAP dose as free text inside
//     ImageComments ("DAP:123mGycm2"); the value is extracted into the dose
//     attribute.
//   - "Planmeca": the ProMax Mid omits ImagesInAcquisition (recovered by
//     counting the examination folder) and reports the dose scaled down by
//     a factor of 100 (multiplied back up).
//
// Vendor data that fails to parse is logged and left alone; corrections
// never abort the run.
package normalize
