package intent

import "fmt"

// ContextFingerprint produces the canonical serialisation of the
// location/purpose/user subset of a context, stored on GoldenRecord so a
// later audit can see what kind of situation a golden record was learned
// under without retaining the full snapshot.
func ContextFingerprint(c ContextSnapshot) string {
	return fmt.Sprintf("loc=%s|purpose=%s|user=%s",
		c.LocationContext, c.GoalAlignment, c.UserProfile)
}
