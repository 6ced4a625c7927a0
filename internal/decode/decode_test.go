package decode

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepscope/internal/trace"
)

const sample = `{
	// recorded by the game's debug build
	"steps": [
		{
			"name": "tick start",
			"ball": {
				"shape_type": {"id": 1, "label": "circle"},
				"shape": {"p": [0, 0], "r": 4},
				"pos": [100, 50],
				"pos_d": [0.5, 0],
				"ang_vel": 0.25,
				"ang_vel_d": 0.01,
				"vel": [1, -2],
				"vel_d": [0, 0.1],
			},
			"cam_offset": [0, -10],
			"collisions": [],
		},
		{
			"name": "physics step start",
			"ball": {
				"shape_type": {"id": 1, "label": "circle"},
				"shape": {"p": [0, 0], "r": 4},
				"pos": [101, 48],
				"pos_delta": [1, 1],
				"angular_vel": 2,
				"vel": [1, -2],
			},
			"cam_offset": [0, -10],
			"cam_data": {
				"drag_vel": 1.5,
				"limits": [[0, 0], [400, 480]],
				"soft": [[0.2, 0.2], [0.3, 0.3]],
				"hard": [[0.5, 0.5], [0.6, 0.6]],
			},
			"collisions": [
				{
					"manifold": {"depth": 1.25, "contact": [103, 48], "normal": [1, 0]},
					"body": {
						"shape_type": {"id": 4, "label": "capsule"},
						"shape": {"a": [100, 60], "b": [130, 70], "ra": 6, "rb": 3},
						"pos": [110, 62],
						"vel": [0, -3],
					},
				},
			],
		},
	],
	"static_bodies": [
		{
			"shape_type": {"id": 3, "label": "poly"},
			"shape": {"sub_polys": [{"verts": [[0, 0], [10, 0], [10, 10]]}]},
			"pos": [0, 0],
		},
		/* legacy polygon layout */
		{
			"shape_type": {"id": 2, "label": "poly"},
			"shape": {"verts": [[20, 0], [30, 0], [30, 10]]},
			"pos": [0, 0],
		},
	],
}`

func TestDecode_PlainText(t *testing.T) {
	data, err := Decode("sample.json", []byte(sample))
	require.NoError(t, err)

	require.Len(t, data.Steps, 2)
	require.Len(t, data.StaticBodies, 2)
	assert.NotZero(t, data.Hash)

	first := data.Steps[0]
	assert.Equal(t, "tick start", first.Name)
	require.NotNil(t, first.Ball)
	assert.Equal(t, trace.Vec2{100, 50}, first.Ball.Pos)
	assert.Equal(t, trace.Vec2{0.5, 0}, first.Ball.PosDelta, "short field name")
	assert.Equal(t, 0.25, first.Ball.AngularVel)
	assert.Equal(t, 0.01, first.Ball.AngularVelDelta)
	assert.Equal(t, trace.Vec2{0, 0.1}, first.Ball.VelDelta)
	assert.Equal(t, trace.Vec2{0, -10}, first.CamOffset)
	assert.Nil(t, first.Cam)
	assert.Empty(t, first.Collisions)

	second := data.Steps[1]
	assert.Equal(t, trace.Vec2{1, 1}, second.Ball.PosDelta, "long field name")
	assert.Equal(t, 2.0, second.Ball.AngularVel)
	require.NotNil(t, second.Cam)
	assert.Equal(t, 1.5, second.Cam.DragVel)
	assert.Equal(t, trace.Vec2{400, 480}, second.Cam.Limits.Max)
	assert.Equal(t, trace.Vec2{0.5, 0.5}, second.Cam.Hard.Min)

	require.Len(t, second.Collisions, 1)
	col := second.Collisions[0]
	assert.Equal(t, 1.25, col.Manifold.Depth)
	assert.Equal(t, trace.Vec2{1, 0}, col.Manifold.Normal)
	require.NotNil(t, col.Body.Shape.RA)
	assert.Equal(t, 6.0, *col.Body.Shape.RA)

	assert.Len(t, data.StaticBodies[0].Shape.SubPolys, 1)
	require.Len(t, data.StaticBodies[1].Shape.SubPolys, 1, "legacy verts become one sub-polygon")
	assert.Equal(t, trace.Vec2{30, 10}, data.StaticBodies[1].Shape.SubPolys[0][2])
}

func TestDecode_DataURI(t *testing.T) {
	payload := DataURIHeader + base64.StdEncoding.EncodeToString([]byte(sample))

	fromURI, err := Decode("drop", []byte(payload))
	require.NoError(t, err)
	fromText, err := Decode("drop", []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, fromText, fromURI)
}

func TestDecode_DataURIUnpadded(t *testing.T) {
	doc := `{"steps": []}`
	payload := "data:text/plain;base64," + base64.RawStdEncoding.EncodeToString([]byte(doc))

	data, err := Decode("drop", []byte(payload))
	require.NoError(t, err)
	assert.Empty(t, data.Steps)
}

func TestDecode_LoadsIntoTrace(t *testing.T) {
	data, err := Decode("sample.json", []byte(sample))
	require.NoError(t, err)

	tr, err := trace.Load(data, trace.Options{Tags: trace.CurrentTags})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, tr.Collisions)
	assert.IsType(t, &trace.Capsule{}, tr.Steps[1].Collisions[0].Body.Shape)
	assert.IsType(t, &trace.Polygon{}, tr.StaticBodies[0].Shape)
	assert.IsType(t, &trace.Polygon{}, tr.StaticBodies[1].Shape)
	assert.Equal(t, 4.0, tr.Steps[0].Ball.Radius())
	assert.Equal(t, data.Hash, tr.Hash)
}

func TestDecode_EmbeddedShapeTags(t *testing.T) {
	doc := `{
		shape_tags: {"circle": 9},
		"steps": [{"name": "a", "ball": {"shape_type": {"id": 9}, "shape": {"r": 2}}}],
	}`

	data, err := Decode("tags", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"circle": 9}, data.ShapeTags)
}

func TestDecode_HashFollowsContent(t *testing.T) {
	a, err := Decode("a", []byte(`{"steps": []}`))
	require.NoError(t, err)
	b, err := Decode("b", []byte(`{"steps": []}`))
	require.NoError(t, err)
	c, err := Decode("c", []byte(`{"steps": [], "static_bodies": []}`))
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		is      error
	}{
		{"empty", "", ErrEmptyPayload},
		{"whitespace", "  \n\t", ErrEmptyPayload},
		{"data uri without base64", "data:text/plain,hello", ErrUnknownPayload},
		{"bad base64", DataURIHeader + "!!!not base64!!!", nil},
		{"empty base64 payload", DataURIHeader, ErrEmptyPayload},
		{"binary", "\xff\xfe\x00\x01", ErrUnknownPayload},
		{"array at top level", `[1, 2, 3]`, nil},
		{"broken json", `{"steps": [ {"name": }`, nil},
		{"steps not an array", `{"steps": 4}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("input", []byte(tt.payload))
			require.Error(t, err)

			var derr *Error
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, "input", derr.Source)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physics-steps.js")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data.Steps, 2)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
