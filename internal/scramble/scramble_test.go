package scramble_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/motion"
	"github.com/san-kum/folio/internal/scramble"
)

const ms = time.Millisecond

var _ = Describe("LockTimes", func() {
	It("staggers indices with a small deterministic jitter", func() {
		locks := scramble.LockTimes(4, 22*ms, 34*ms, 7)
		Expect(locks).To(Equal([]time.Duration{238 * ms, 267 * ms, 296 * ms, 304 * ms}))
	})

	It("returns nothing for empty text", func() {
		Expect(scramble.LockTimes(0, 22*ms, 34*ms, 7)).To(BeEmpty())
	})
})

var _ = Describe("Scrambler", func() {
	var s *scramble.Scrambler

	BeforeEach(func() {
		s = scramble.New(scramble.DefaultConfig(), "AB", nil, scramble.WithSeed(42))
	})

	AfterEach(func() {
		s.Close()
	})

	It("locks index 0 at 238ms and index 1 at 267ms", func() {
		s.Frame(237 * ms)
		Expect(s.Done()).To(BeFalse())

		s.Frame(1 * ms)
		Expect([]rune(s.Text())[0]).To(Equal('A'))
		Expect(s.Done()).To(BeFalse())

		s.Frame(28 * ms)
		Expect(s.Text()).To(Equal("AB"))
		Expect(s.Done()).To(BeTrue())
	})

	It("stops changing once every index locked", func() {
		s.Frame(300 * ms)
		Expect(s.Text()).To(Equal("AB"))
		elapsed := s.Elapsed()
		s.Frame(16 * ms)
		Expect(s.Elapsed()).To(Equal(elapsed))
		Expect(s.Text()).To(Equal("AB"))
	})

	It("only shows charset or target characters before locking", func() {
		for i := 0; i < 10; i++ {
			s.Frame(20 * ms)
			for _, r := range s.Text() {
				Expect(strings.ContainsRune(scramble.DefaultCharset, r)).To(BeTrue())
			}
		}
	})

	It("discards the run in flight when the target changes", func() {
		s.Frame(250 * ms)
		Expect(s.SetText("XYZ")).To(BeTrue())
		Expect(s.Elapsed()).To(BeZero())
		Expect(s.Target()).To(Equal("XYZ"))
		Expect([]rune(s.Text())).To(HaveLen(3))
		Expect(s.Done()).To(BeFalse())

		s.Frame(296 * ms)
		Expect(s.Text()).To(Equal("XYZ"))
	})

	It("ignores a SetText with the same target", func() {
		s.Frame(100 * ms)
		Expect(s.SetText("AB")).To(BeFalse())
		Expect(s.Elapsed()).To(Equal(100 * ms))
		Expect(s.Runs()).To(Equal(1))
	})

	It("scrambles spaces like any other position", func() {
		blank := strings.Repeat(" ", 20)
		s.SetText(blank)
		Expect(s.Text()).NotTo(Equal(blank))

		s.Frame(time.Second)
		Expect(s.Text()).To(Equal(blank))
	})

	It("draws from a charset that includes the space", func() {
		Expect(scramble.DefaultCharset).To(HaveSuffix(":.-_/ "))
	})

	It("is immediately done for empty text", func() {
		s.SetText("")
		Expect(s.Done()).To(BeTrue())
		Expect(s.Text()).To(BeEmpty())
	})

	It("handles multibyte targets per rune", func() {
		s.SetText("héllo")
		s.Frame(time.Second)
		Expect(s.Text()).To(Equal("héllo"))
	})
})

var _ = Describe("reduced motion", func() {
	It("jumps straight to the target", func() {
		s := scramble.New(scramble.DefaultConfig(), "HELLO", motion.Static(true))
		defer s.Close()
		s.Frame(16 * ms)
		Expect(s.Text()).To(Equal("HELLO"))
		Expect(s.Done()).To(BeTrue())
	})

	It("follows preference changes while mounted", func() {
		sw := motion.NewSwitch(false)
		s := scramble.New(scramble.DefaultConfig(), "HELLO", sw, scramble.WithSeed(1))
		s.Frame(16 * ms)
		Expect(s.Done()).To(BeFalse())

		sw.Set(true)
		s.Frame(16 * ms)
		Expect(s.Text()).To(Equal("HELLO"))

		s.Close()
		Expect(sw.Subscribers()).To(BeZero())
	})
})

var _ = Describe("painting", func() {
	It("draws one glyph per character on the attached surface", func() {
		rec := anim.NewRecorder(320, 80)
		s := scramble.New(scramble.DefaultConfig(), "FOLIO", nil, scramble.WithSurface(rec), scramble.WithSeed(3))
		defer s.Close()

		s.Frame(16 * ms)
		Expect(rec.Glyphs).To(Equal(5))
		Expect(rec.Clears).To(Equal(1))
	})

	It("does nothing on a surface that is not ready", func() {
		rec := anim.NewRecorder(0, 0)
		s := scramble.New(scramble.DefaultConfig(), "FOLIO", nil, scramble.WithSurface(rec))
		defer s.Close()

		s.Frame(16 * ms)
		Expect(rec.Ops()).To(BeZero())
	})
})
