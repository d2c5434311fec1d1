package pref_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prefs/pkg/pref"
)

var _ = Describe("Value", func() {
	Describe("typed accessors", func() {
		It("returns the held value for a matching kind", func() {
			Expect(pref.String("dark").StringOr("light")).To(Equal("dark"))
			Expect(pref.Bool(true).BoolOr(false)).To(BeTrue())
			Expect(pref.Int(42).IntOr(0)).To(Equal(int64(42)))
			Expect(pref.Double(1.5).DoubleOr(0)).To(Equal(1.5))
			Expect(pref.Strings([]string{"a", "b"}).StringsOr(nil)).To(Equal([]string{"a", "b"}))
		})

		It("coerces to the default on kind mismatch", func() {
			Expect(pref.Int(42).StringOr("fallback")).To(Equal("fallback"))
			Expect(pref.String("true").BoolOr(false)).To(BeFalse())
			Expect(pref.Double(1.5).IntOr(7)).To(Equal(int64(7)))
			Expect(pref.Bool(true).DoubleOr(2.5)).To(Equal(2.5))
			Expect(pref.String("x").StringsOr([]string{"d"})).To(Equal([]string{"d"}))
		})
	})

	Describe("Strings", func() {
		It("copies the input slice", func() {
			src := []string{"a", "b"}
			v := pref.Strings(src)
			src[0] = "mutated"
			Expect(v.StringsOr(nil)).To(Equal([]string{"a", "b"}))
		})

		It("copies on read too", func() {
			v := pref.Strings([]string{"a", "b"})
			out := v.StringsOr(nil)
			out[0] = "mutated"
			Expect(v.StringsOr(nil)).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("Equal", func() {
		It("compares kind and contents", func() {
			Expect(pref.String("a").Equal(pref.String("a"))).To(BeTrue())
			Expect(pref.String("a").Equal(pref.String("b"))).To(BeFalse())
			Expect(pref.Int(1).Equal(pref.Double(1))).To(BeFalse())
			Expect(pref.Strings([]string{"a"}).Equal(pref.Strings([]string{"a"}))).To(BeTrue())
			Expect(pref.Strings([]string{"a"}).Equal(pref.Strings([]string{"a", "b"}))).To(BeFalse())
		})
	})

	Describe("Render", func() {
		It("renders each kind as its wire string form", func() {
			Expect(pref.String("dark").Render()).To(Equal("dark"))
			Expect(pref.Bool(true).Render()).To(Equal("true"))
			Expect(pref.Int(-3).Render()).To(Equal("-3"))
			Expect(pref.Double(2.5).Render()).To(Equal("2.5"))
		})

		It("renders the zero value as an empty string", func() {
			var v pref.Value
			Expect(v.Render()).To(Equal(""))
		})
	})
})
