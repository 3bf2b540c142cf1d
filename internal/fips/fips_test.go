package fips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insan3d/proctl/internal/reconcile"
)

func TestApplyLatest(t *testing.T) {
	t.Parallel()

	desired := reconcile.DesiredState{Attachment: reconcile.Attached, Enable: []string{"esm-infra"}}

	merged, err := Apply(Latest, desired)
	require.NoError(t, err)

	assert.Equal(t, []string{"esm-infra", ServiceFIPSUpdates}, merged.Enable)
	assert.Equal(t, []string{ServiceFIPS}, merged.Disable)
}

func TestApplyFrozen(t *testing.T) {
	t.Parallel()

	merged, err := Apply(Frozen, reconcile.DesiredState{Attachment: reconcile.Attached})
	require.NoError(t, err)

	assert.Equal(t, []string{ServiceFIPS}, merged.Enable)
	assert.Equal(t, []string{ServiceFIPSUpdates}, merged.Disable)
}

func TestApplyAbsentDisablesBothStreams(t *testing.T) {
	t.Parallel()

	merged, err := Apply(Absent, reconcile.DesiredState{Attachment: reconcile.Attached})
	require.NoError(t, err)

	assert.Empty(t, merged.Enable)
	assert.Equal(t, []string{ServiceFIPS, ServiceFIPSUpdates}, merged.Disable)
}

func TestApplyUnmanagedLeavesDeclarationAlone(t *testing.T) {
	t.Parallel()

	desired := reconcile.DesiredState{Attachment: reconcile.Attached, Enable: []string{"esm-infra"}}

	merged, err := Apply(Unmanaged, desired)
	require.NoError(t, err)
	assert.Equal(t, desired, merged)
}

func TestApplyRejectsContradictingDeclaration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		sel     Selection
		desired reconcile.DesiredState
	}{
		{
			name:    "latest vs explicit disable of fips-updates",
			sel:     Latest,
			desired: reconcile.DesiredState{Attachment: reconcile.Attached, Disable: []string{ServiceFIPSUpdates}},
		},
		{
			name:    "frozen vs explicit enable of fips-updates",
			sel:     Frozen,
			desired: reconcile.DesiredState{Attachment: reconcile.Attached, Enable: []string{ServiceFIPSUpdates}},
		},
		{
			name:    "absent vs explicit enable of fips",
			sel:     Absent,
			desired: reconcile.DesiredState{Attachment: reconcile.Attached, Enable: []string{ServiceFIPS}},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Apply(tc.sel, tc.desired)
			require.Error(t, err)
		})
	}
}

func TestApplyIsIdempotentOnMergedLists(t *testing.T) {
	t.Parallel()

	desired := reconcile.DesiredState{
		Attachment: reconcile.Attached,
		Enable:     []string{ServiceFIPS},
		Disable:    []string{ServiceFIPSUpdates},
	}

	merged, err := Apply(Frozen, desired)
	require.NoError(t, err)

	assert.Equal(t, []string{ServiceFIPS}, merged.Enable)
	assert.Equal(t, []string{ServiceFIPSUpdates}, merged.Disable)
}

func TestSelectionValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Latest.Validate())
	require.NoError(t, Unmanaged.Validate())
	require.Error(t, Selection("newest").Validate())
}
