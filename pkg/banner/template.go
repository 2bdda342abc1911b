package banner

// SelectVariant maps a speaker count to its template variant:
// 1 speaker -> single, 2 -> duo, 3 -> panel.
//
// Counts outside {1, 2, 3} are prevented upstream by the fixed count
// selector; this is a documented precondition, not a runtime error path.
// Out-of-range input maps to single so the function stays total.
func SelectVariant(speakerCount int) Variant {
	switch speakerCount {
	case 2:
		return VariantDuo
	case 3:
		return VariantPanel
	default:
		return VariantSingle
	}
}
