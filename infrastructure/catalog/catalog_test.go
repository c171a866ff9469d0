package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# model families
cisco_catalyst:C2960X-48FPD-L,C3750G-24TS,
cisco_sg_300:SG300-28,SG300-52P
cisco_sg_350: SG350-28 , SG350-52P,,

cisco_catalyst_dup:C3750G-24TS
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	families := c.Families()
	require.Len(t, families, 4)
	assert.Equal(t, "cisco_catalyst", families[0].Name)
	assert.Equal(t, []string{"C2960X-48FPD-L", "C3750G-24TS"}, families[0].Models)
	assert.Equal(t, []string{"SG350-28", "SG350-52P"}, families[2].Models)
}

func TestFindFamily(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	tests := []struct {
		name   string
		model  string
		family string
		found  bool
	}{
		{name: "catalyst", model: "C2960X-48FPD-L", family: "cisco_catalyst", found: true},
		{name: "sg300", model: "SG300-52P", family: "cisco_sg_300", found: true},
		{name: "sg350 trimmed", model: "SG350-28", family: "cisco_sg_350", found: true},
		{name: "first family wins", model: "C3750G-24TS", family: "cisco_catalyst", found: true},
		{name: "unknown", model: "USW-24"},
		{name: "empty", model: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, found := c.FindFamily(tt.model)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.family, family)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing colon", input: "cisco_catalyst C2960X"},
		{name: "two colons", input: "cisco:catalyst:C2960X"},
		{name: "empty family", input: ":C2960X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestFamiliesIsACopy(t *testing.T) {
	c, err := Parse(strings.NewReader("cisco_catalyst:C2960X"))
	require.NoError(t, err)

	families := c.Families()
	families[0].Models[0] = "changed"

	family, found := c.FindFamily("C2960X")
	assert.True(t, found)
	assert.Equal(t, "cisco_catalyst", family)
	assert.Equal(t, "C2960X", c.Families()[0].Models[0])
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.list")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	_, found := c.FindFamily("SG300-28")
	assert.True(t, found)

	_, err = Load(filepath.Join(t.TempDir(), "missing.list"))
	assert.Error(t, err)
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, found := c.FindFamily("C2960X")
	assert.False(t, found)
	assert.Nil(t, c.Families())
}

func TestParse_LongLines(t *testing.T) {
	models := make([]string, 0, 20000)
	for i := 0; i < 20000; i++ {
		models = append(models, fmt.Sprintf("SG300-%05d", i))
	}
	long := "cisco_sg_300:" + strings.Join(models, ",")
	require.Greater(t, len(long), 64*1024)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "line over 64KiB", input: long + "\ncisco_catalyst:C3750G-24TS\n"},
		{name: "line over limit", input: "big:" + strings.Repeat("M", maxLineSize+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			family, found := c.FindFamily("SG300-19999")
			assert.True(t, found)
			assert.Equal(t, "cisco_sg_300", family)
			family, found = c.FindFamily("C3750G-24TS")
			assert.True(t, found)
			assert.Equal(t, "cisco_catalyst", family)
		})
	}
}
