/*
index.go - Day-level policy lookup built from policy history

PURPOSE:
  Policy assignments are stored as intervals. Evaluation needs the answer to
  "which policy applied to user U on day D?" thousands of times per report.
  Build materialises every (user, day) inside the report range once, so each
  lookup is a single map read.

ALGORITHM:
  1. Sort assignments by StartDate (stable, so equal starts keep input order)
  2. Clamp each interval to the report range; skip empty clamps
  3. Write every day of the clamp; a later-starting assignment overwrites an
     earlier one ("last write wins")
  4. Compare each user's placed intervals pairwise; every pair sharing a day
     is reported once as an AmbiguousAssignment warning

  Cost is O(sum of clamped days) plus O(k^2) per user with k assignments. Ranges are pay periods or months; callers
  window multi-year ranges themselves.

LIFETIME:
  The Index is owned by whoever called Build and is discarded after the
  reporting run. It is never mutated after Build returns, so concurrent
  lookups need no locking.
*/
package attendance

import "sort"

// dayKey is the composite (user, day) key of the index.
type dayKey struct {
	UserID UserID
	Date   Date
}

// placement is one resolved assignment and the part of the range it covers.
// Overlaps are detected by position in the sorted input, since assignment
// IDs are optional and may repeat.
type placement struct {
	assignment PolicyAssignment
	span       DateRange
}

// Index maps (user, day) to the policy in effect.
type Index struct {
	Range DateRange

	entries map[dayKey]EffectivePolicy

	// Ambiguous lists every overlapping assignment pair, grouped by user in
	// order of first appearance, then by sort position.
	Ambiguous []AmbiguousAssignment

	// Unresolved lists assignments whose policy could not be found. Their
	// days stay uncovered.
	Unresolved []PolicyAssignment
}

// Build constructs the index for rng. resolve may be nil when every
// assignment carries its joined Policy.
func Build(assignments []PolicyAssignment, resolve PolicyResolver, rng DateRange) (*Index, error) {
	if !rng.Valid() {
		return nil, ErrInvalidRange
	}

	ordered := make([]PolicyAssignment, len(assignments))
	copy(ordered, assignments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartDate.Before(ordered[j].StartDate)
	})

	idx := &Index{
		Range:   rng,
		entries: make(map[dayKey]EffectivePolicy),
	}
	placed := make(map[UserID][]placement)
	var userOrder []UserID

	for _, a := range ordered {
		span, ok := rng.Clamp(a.StartDate, a.EndDate)
		if !ok {
			continue
		}

		policy, ok := resolvePolicy(a, resolve)
		if !ok {
			idx.Unresolved = append(idx.Unresolved, a)
			continue
		}
		effective := EffectivePolicy{AttendancePolicy: policy, AssignmentID: a.ID}

		for day := span.Start; day.BeforeOrEqual(span.End); day = day.AddDays(1) {
			idx.entries[dayKey{UserID: a.UserID, Date: day}] = effective
		}

		if _, seen := placed[a.UserID]; !seen {
			userOrder = append(userOrder, a.UserID)
		}
		placed[a.UserID] = append(placed[a.UserID], placement{assignment: a, span: span})
	}

	for _, user := range userOrder {
		idx.recordOverlaps(user, placed[user])
	}

	return idx, nil
}

// recordOverlaps reports every pair of placements that share at least one
// day. placements are in sort order, so the second of each pair takes
// precedence over the first.
func (idx *Index) recordOverlaps(user UserID, placements []placement) {
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			earlier, later := placements[i], placements[j]
			from := MaxDate(earlier.span.Start, later.span.Start)
			to := MinDate(earlier.span.End, later.span.End)
			if from.After(to) {
				continue
			}
			idx.Ambiguous = append(idx.Ambiguous, AmbiguousAssignment{
				UserID:  user,
				Earlier: earlier.assignment.ID,
				Later:   later.assignment.ID,
				From:    from,
				To:      to,
			})
		}
	}
}

func resolvePolicy(a PolicyAssignment, resolve PolicyResolver) (AttendancePolicy, bool) {
	if a.Policy != nil {
		p := *a.Policy
		if p.ID == "" {
			p.ID = a.PolicyID
		}
		return p, true
	}
	if resolve == nil {
		return AttendancePolicy{}, false
	}
	return resolve(a.PolicyID)
}

// Lookup returns the policy in effect for user on day. ok=false is a
// configuration gap: the caller cannot evaluate that day.
func (idx *Index) Lookup(user UserID, day Date) (EffectivePolicy, bool) {
	p, ok := idx.entries[dayKey{UserID: user, Date: day}]
	return p, ok
}

// Len is the number of (user, day) entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Users returns every user with at least one covered day, sorted.
func (idx *Index) Users() []UserID {
	seen := make(map[UserID]struct{})
	for k := range idx.entries {
		seen[k.UserID] = struct{}{}
	}
	users := make([]UserID, 0, len(seen))
	for u := range seen {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}
