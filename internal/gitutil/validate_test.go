package gitutil

import "testing"

func TestValidateBranchName(t *testing.T) {
	cases := []struct {
		name    string
		branch  string
		wantErr bool
	}{
		{name: "simple name", branch: "feature-login", wantErr: false},
		{name: "prefixed name", branch: "feat/add-login", wantErr: false},
		{name: "empty", branch: "", wantErr: true},
		{name: "leading dash", branch: "-feature", wantErr: true},
		{name: "double dot", branch: "feat..login", wantErr: true},
		{name: "contains space", branch: "feat login", wantErr: true},
		{name: "contains tilde", branch: "feat~1", wantErr: true},
		{name: "contains colon", branch: "feat:login", wantErr: true},
		{name: "contains question mark", branch: "feat?", wantErr: true},
		{name: "contains asterisk", branch: "feat*", wantErr: true},
		{name: "trailing slash", branch: "feat/", wantErr: true},
		{name: "lock suffix", branch: "feat.lock", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBranchName(tc.branch)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateBranchName(%q) error = %v, wantErr %v", tc.branch, err, tc.wantErr)
			}
		})
	}
}
