package ros

// setDifference returns the items of lhs that are not in rhs.
func setDifference(lhs []string, rhs []string) []string {
	right := make(map[string]struct{}, len(rhs))
	for _, item := range rhs {
		right[item] = struct{}{}
	}
	var result []string
	seen := make(map[string]struct{}, len(lhs))
	for _, item := range lhs {
		if _, ok := right[item]; ok {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
