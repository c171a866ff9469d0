package catalyst

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/oid"
)

type fakeWalker struct {
	results  map[string]entities.WalkResult
	requests []entities.WalkRequest
}

func (f *fakeWalker) Target() string { return "10.0.0.2" }

func (f *fakeWalker) Walk(_ context.Context, req entities.WalkRequest) entities.WalkResult {
	f.requests = append(f.requests, req)
	if res, ok := f.results[req.OID]; ok {
		return res
	}
	return entities.WalkResult{Status: entities.WalkOK}
}

type recorder struct {
	errs []error
}

func (r *recorder) Warn(err error) {
	r.errs = append(r.errs, err)
}

func ok(entries ...entities.Entry) entities.WalkResult {
	return entities.WalkResult{Status: entities.WalkOK, Entries: entries}
}

func e(index, value string) entities.Entry {
	return entities.Entry{Index: index, Value: value}
}

func newWalker() *fakeWalker {
	return &fakeWalker{results: map[string]entities.WalkResult{
		oid.VlanTrunkPortDynamicState: ok(
			e("10101", "2"), e("10102", "4"), e("10103", "1"), e("10104", "3"),
			e("10105", "5"), e("10106", "6"), e("10107", "1"),
		),
		oid.VlanTrunkPortNativeVlan: ok(
			e("10103", "10"), e("10104", "10"), e("10105", "1"), e("10107", "20"),
		),
		oid.VmVlan: ok(e("10101", "20"), e("10102", "1")),
		oid.VlanTrunkPortVlansEnabled: ok(
			e("10103", "0024"), e("10104", "0020"), e("10107", "4000"),
		),
		oid.VlanTrunkPortVlansXmitJoined: ok(e("10105", "0004")),
	}}
}

func TestBuild(t *testing.T) {
	rec := &recorder{}
	interfaces, err := New().Build(context.Background(), newWalker(), rec)
	require.NoError(t, err)
	assert.Empty(t, rec.errs)

	expected := []entities.Interface{
		{Index: "10101", Mode: entities.ModeAccess, UntaggedVLAN: "20"},
		{Index: "10102", Mode: entities.ModeAccess},
		{Index: "10103", Mode: entities.ModeTagged, UntaggedVLAN: "10", TaggedVLANs: []string{"10", "13"}},
		{Index: "10104", Mode: entities.ModeTaggedAll, UntaggedVLAN: "10", TaggedVLANs: []string{"10"}},
		{Index: "10105", Mode: entities.ModeTaggedNoneg, TaggedVLANs: []string{"13"}},
		{Index: "10107", Mode: entities.ModeTaggedAll, UntaggedVLAN: "20", TaggedVLANs: []string{}},
	}
	assert.Equal(t, expected, interfaces)
}

func TestBuild_NativeVLANStaysTagged(t *testing.T) {
	w := &fakeWalker{results: map[string]entities.WalkResult{
		oid.VlanTrunkPortDynamicState: ok(e("5", "1")),
		oid.VlanTrunkPortNativeVlan:   ok(e("5", "10")),
		oid.VlanTrunkPortVlansEnabled: ok(e("5", "0020")),
	}}

	interfaces, err := New().Build(context.Background(), w, &recorder{})
	require.NoError(t, err)
	require.Len(t, interfaces, 1)
	assert.Equal(t, entities.ModeTaggedAll, interfaces[0].Mode)
	assert.Equal(t, []string{"10"}, interfaces[0].TaggedVLANs)
}

func TestBuild_NeverTagsDefaultVLAN(t *testing.T) {
	interfaces, err := New().Build(context.Background(), newWalker(), &recorder{})
	require.NoError(t, err)
	for _, iface := range interfaces {
		assert.NotContains(t, iface.TaggedVLANs, "1", iface.Index)
	}
}

func TestBuild_WalksHexBitmaps(t *testing.T) {
	w := newWalker()
	_, err := New().Build(context.Background(), w, &recorder{})
	require.NoError(t, err)

	require.Len(t, w.requests, 5)
	for _, req := range w.requests {
		switch req.OID {
		case oid.VlanTrunkPortVlansEnabled, oid.VlanTrunkPortVlansXmitJoined:
			assert.Equal(t, entities.GrammarIndexHex, req.Grammar)
			assert.True(t, req.Hex)
		default:
			assert.Equal(t, entities.GrammarIndexInt, req.Grammar)
			assert.False(t, req.Hex)
		}
	}
}

func TestBuild_SoftEmptyIsRecorded(t *testing.T) {
	w := newWalker()
	w.results[oid.VmVlan] = entities.WalkResult{
		Status: entities.WalkSoftEmpty,
		Err:    &entities.SoftError{Target: "10.0.0.2", OID: oid.VmVlan, Err: entities.ErrNoSuchObject},
	}
	rec := &recorder{}

	interfaces, err := New().Build(context.Background(), w, rec)
	require.NoError(t, err)
	require.Len(t, rec.errs, 1)
	assert.ErrorIs(t, rec.errs[0], entities.ErrNoSuchObject)
	assert.Equal(t, "", interfaces[0].UntaggedVLAN)
}

func TestBuild_BadBitmapIsRecorded(t *testing.T) {
	w := newWalker()
	w.results[oid.VlanTrunkPortVlansEnabled] = ok(e("10103", "0Z"), e("10104", "0020"))
	rec := &recorder{}

	interfaces, err := New().Build(context.Background(), w, rec)
	require.NoError(t, err)
	require.Len(t, rec.errs, 1)
	assert.Equal(t, entities.ModeTaggedAll, interfaces[2].Mode)
	assert.Equal(t, []string{"10"}, interfaces[3].TaggedVLANs)
}

func TestBuild_FatalAborts(t *testing.T) {
	w := newWalker()
	fatal := &entities.FatalError{Target: "10.0.0.2", OID: oid.VlanTrunkPortNativeVlan, Err: errors.New("exit status 1")}
	w.results[oid.VlanTrunkPortNativeVlan] = entities.WalkResult{Status: entities.WalkFatal, Err: fatal}

	interfaces, err := New().Build(context.Background(), w, &recorder{})
	require.ErrorIs(t, err, fatal)
	assert.Nil(t, interfaces)
	assert.Len(t, w.requests, 2)
}

func TestName(t *testing.T) {
	assert.Equal(t, "cisco_catalyst", New().Name())
}
