package pref_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prefs/pkg/pref"
)

var _ = Describe("Codec", func() {
	Describe("Encode", func() {
		It("tags scalar kinds with their wire type", func() {
			Expect(pref.Encode(pref.Bool(true))).To(Equal(pref.TypedValue{DataType: pref.TypeBool, Value: "true"}))
			Expect(pref.Encode(pref.Int(42))).To(Equal(pref.TypedValue{DataType: pref.TypeInt, Value: "42"}))
			Expect(pref.Encode(pref.Double(2.5))).To(Equal(pref.TypedValue{DataType: pref.TypeDouble, Value: "2.5"}))
			Expect(pref.Encode(pref.String("dark"))).To(Equal(pref.TypedValue{DataType: pref.TypeString, Value: "dark"}))
		})

		It("degrades string sequences to their string rendering", func() {
			tv := pref.Encode(pref.Strings([]string{"a", "b"}))
			Expect(tv.DataType).To(Equal(pref.TypeString))
		})
	})

	Describe("Decode", func() {
		It("round-trips scalar values", func() {
			for _, v := range []pref.Value{
				pref.String("dark"),
				pref.Bool(true),
				pref.Bool(false),
				pref.Int(-17),
				pref.Double(3.25),
			} {
				tv := pref.Encode(v)
				Expect(pref.Decode(tv.Value, tv.DataType).Equal(v)).To(BeTrue())
			}
		})

		It("compares booleans case-insensitively against true", func() {
			Expect(pref.Decode("TRUE", pref.TypeBool).BoolOr(false)).To(BeTrue())
			Expect(pref.Decode("True", pref.TypeBool).BoolOr(false)).To(BeTrue())
			Expect(pref.Decode("yes", pref.TypeBool).BoolOr(true)).To(BeFalse())
			Expect(pref.Decode("", pref.TypeBool).BoolOr(true)).To(BeFalse())
		})

		It("silently decodes malformed numerics to zero", func() {
			Expect(pref.Decode("not-a-number", pref.TypeInt).Equal(pref.Int(0))).To(BeTrue())
			Expect(pref.Decode("12.5", pref.TypeInt).Equal(pref.Int(0))).To(BeTrue())
			Expect(pref.Decode("not-a-double", pref.TypeDouble).Equal(pref.Double(0))).To(BeTrue())
		})

		It("passes unknown type tags through as strings", func() {
			Expect(pref.Decode("whatever", "blob").Equal(pref.String("whatever"))).To(BeTrue())
		})
	})
})
