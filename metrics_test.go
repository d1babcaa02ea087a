package dop

import (
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/types"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	td.CmpNoError(t, RegisterMetrics(reg))
	td.CmpNoError(t, RegisterMetrics(prometheus.NewRegistry()))

	packed := testutil.ToFloat64(messagesTotal.WithLabelValues(opPack, "ok"))
	unpacked := testutil.ToFloat64(messagesTotal.WithLabelValues(opUnpack, "ok"))
	signErrs := testutil.ToFloat64(messagesTotal.WithLabelValues(opUnpack, "sign"))

	e := NewEncoder(&Config{Sign: true})
	td.CmpNoError(t, e.WriteStruct(types.MustParse("struct{s:string}"), types.NewStruct(types.M("s", "hello"))))
	msg, err := e.Pack()
	td.CmpNoError(t, err)

	_, err = NewDecoder(msg, nil).Unpack("")
	td.CmpNoError(t, err)

	// Flip a byte of the value, which the signature covers.
	msg[len(msg)-encio.SignSize-1] ^= 1
	_, err = NewDecoder(msg, nil).Unpack("")
	td.CmpTrue(t, errors.Is(err, encio.ErrSign))

	td.Cmp(t, testutil.ToFloat64(messagesTotal.WithLabelValues(opPack, "ok")), packed+1)
	td.Cmp(t, testutil.ToFloat64(messagesTotal.WithLabelValues(opUnpack, "ok")), unpacked+1)
	td.Cmp(t, testutil.ToFloat64(messagesTotal.WithLabelValues(opUnpack, "sign")), signErrs+1)

	count, err := testutil.GatherAndCount(reg, "dop_codec_messages_total", "dop_codec_message_bytes")
	td.CmpNoError(t, err)
	td.CmpTrue(t, count >= 3)
}

func TestResultLabel(t *testing.T) {
	testCases := []struct {
		desc string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"size", encio.NewError(encio.ErrSize, "", "test"), "size"},
		{"sign", encio.NewError(encio.ErrSign, "", "test"), "sign"},
		{"data", encio.NewError(encio.ErrData, "", "test"), "data"},
		{"mask", encio.NewError(encio.ErrMask, "", "test"), "mask"},
		{"bad type", encio.NewError(encio.ErrBadType, "", "test"), "bad_type"},
		{"bad config", encio.NewError(encio.ErrBadConfig, "", "test"), "bad_config"},
		{"packed", encio.NewError(encio.ErrPacked, "", "test"), "packed"},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			td.Cmp(t, resultLabel(tC.err), tC.want)
		})
	}
}
