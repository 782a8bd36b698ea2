package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	c := Default()

	require.NotEmpty(t, c.IndustrialGroups)
	require.NotEmpty(t, c.ProvincialChapters)
	require.NotEmpty(t, c.Prenames)
	require.NotEmpty(t, c.BusinessTypes)

	assert.True(t, c.HasIndustrialGroup("010"))
	assert.False(t, c.HasIndustrialGroup("P10"), "chapters are not industrial groups")
	assert.True(t, c.HasProvincialChapter("P10"))
	assert.True(t, c.HasBusinessType("other"))
	assert.False(t, c.HasBusinessType("smuggler"))
}

func TestGroupName(t *testing.T) {
	c := Default()

	assert.Equal(t, "กลุ่มอุตสาหกรรมยานยนต์", c.GroupName("010"))
	assert.Equal(t, "สภาอุตสาหกรรมจังหวัดชลบุรี", c.GroupName("P20"))
	assert.Equal(t, "999", c.GroupName("999"))
}

func TestParse_RejectsDuplicates(t *testing.T) {
	data := []byte(`
industrial_groups:
  - id: "1"
    name_th: ก
  - id: "1"
    name_th: ข
`)
	_, err := Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate industrial group")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("industrial_groups: [unclosed"))
	require.Error(t, err)
}
