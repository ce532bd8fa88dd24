package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/sim"
)

var _ = Describe("Cache", func() {
	var c *Cache

	Context("direct mapping", func() {
		BeforeEach(func() {
			c = NewCache(4, Direct, nil)
		})

		It("should start with invalid lines", func() {
			for i := 0; i < c.NumLines(); i++ {
				s, err := c.LineString(i)
				Expect(err).NotTo(HaveOccurred())
				Expect(s).To(Equal("V=0,T=-1,D=0"))
			}
		})

		It("should miss on an empty cache and hit after the fill", func() {
			line, hit := c.Lookup(5)
			Expect(hit).To(BeFalse())
			Expect(line).To(Equal(1))

			Expect(c.Fill(5, 50)).To(Equal(1))

			line, hit = c.Lookup(5)
			Expect(hit).To(BeTrue())
			Expect(line).To(Equal(1))

			data, err := c.ReadHitData(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal(50))
		})

		It("should only look at the mapped line", func() {
			c.Fill(1, 10)

			_, hit := c.Lookup(5)
			Expect(hit).To(BeFalse())

			c.Fill(5, 50)

			_, hit = c.Lookup(1)
			Expect(hit).To(BeFalse())
			Expect(c.Stats()).To(Equal(Statistics{Fills: 2, Evictions: 1}))
		})

		It("should give consistent results for repeated lookups", func() {
			c.Fill(6, 60)

			for i := 0; i < 3; i++ {
				line, hit := c.Lookup(6)
				Expect(hit).To(BeTrue())
				Expect(line).To(Equal(2))
			}
		})

		It("should write hit data", func() {
			line := c.Fill(3, 30)

			Expect(c.WriteHitData(line, 99)).To(Succeed())

			l, _ := c.Line(line)
			Expect(l.String()).To(Equal("V=1,T=3,D=99"))
		})

		It("should reject out-of-range line indices", func() {
			var oor *sim.OutOfRangeError

			Expect(c.SetLineData(4, 1)).To(BeAssignableToTypeOf(oor))
			_, err := c.ReadHitData(-1)
			Expect(err).To(BeAssignableToTypeOf(oor))
			_, err = c.LineString(9)
			Expect(err).To(BeAssignableToTypeOf(oor))
		})

		It("should override data without validating the line", func() {
			Expect(c.SetLineData(0, 7)).To(Succeed())

			l, _ := c.Line(0)
			Expect(l).To(Equal(Line{Valid: false, Tag: -1, Data: 7}))
		})

		It("should panic on negative addresses", func() {
			Expect(func() { c.Lookup(-1) }).To(Panic())
		})
	})

	Context("associative mapping", func() {
		BeforeEach(func() {
			c = NewCache(4, Associative, nil)
		})

		It("should fill invalid lines in index order", func() {
			Expect(c.Fill(9, 90)).To(Equal(0))
			Expect(c.Fill(5, 50)).To(Equal(1))
			Expect(c.Fill(1, 10)).To(Equal(2))

			line, hit := c.Lookup(5)
			Expect(hit).To(BeTrue())
			Expect(line).To(Equal(1))
		})

		It("should evict line 0 when full", func() {
			for addr := 0; addr < 4; addr++ {
				c.Fill(addr, addr*10)
			}

			_, _ = c.ReadHitData(0)
			Expect(c.Fill(8, 80)).To(Equal(0))

			_, hit := c.Lookup(0)
			Expect(hit).To(BeFalse())
			Expect(c.Stats().Evictions).To(Equal(uint64(1)))
		})

		It("should report a miss with no line", func() {
			line, hit := c.Lookup(3)

			Expect(hit).To(BeFalse())
			Expect(line).To(Equal(-1))
		})
	})

	Context("LRU replacement", func() {
		BeforeEach(func() {
			c = NewCache(2, Associative, NewLRUVictimFinder())
		})

		It("should evict the least recently used line", func() {
			c.Fill(1, 10)
			c.Fill(2, 20)

			line, _ := c.Lookup(1)
			_, _ = c.ReadHitData(line)

			Expect(c.LRUOrder()).To(Equal([]int{1, 0}))
			Expect(c.Fill(3, 30)).To(Equal(1))
		})
	})

	Context("mapping mode", func() {
		BeforeEach(func() {
			c = NewCache(4, Direct, nil)
			c.Fill(2, 20)
		})

		It("should invalidate the lines when the mode changes", func() {
			changed, err := c.SetMappingMode(Associative)

			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			Expect(c.MappingMode()).To(Equal(Associative))
			_, hit := c.Lookup(2)
			Expect(hit).To(BeFalse())
		})

		It("should keep the lines when the mode is unchanged", func() {
			changed, err := c.SetMappingMode(Direct)

			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())
			_, hit := c.Lookup(2)
			Expect(hit).To(BeTrue())
		})

		It("should reject unknown modes", func() {
			_, err := c.SetMappingMode(MappingMode(7))

			Expect(err).To(HaveOccurred())
			Expect(c.MappingMode()).To(Equal(Direct))
		})

		DescribeTable("parsing",
			func(text string, expected MappingMode) {
				m, err := ParseMappingMode(text)

				Expect(err).NotTo(HaveOccurred())
				Expect(m).To(Equal(expected))
			},
			Entry("name", "direct", Direct),
			Entry("upper case", "Associative", Associative),
			Entry("number", "1", Associative),
		)

		It("should reject unparsable modes", func() {
			_, err := ParseMappingMode("2")
			Expect(err).To(BeAssignableToTypeOf(&sim.OutOfRangeError{}))

			_, err = ParseMappingMode("set")
			Expect(err).To(BeAssignableToTypeOf(&sim.InvalidValueError{}))
		})
	})
})

var _ = Describe("NewVictimFinder", func() {
	It("should create finders by name", func() {
		vf, err := NewVictimFinder("lru")
		Expect(err).NotTo(HaveOccurred())
		Expect(vf).To(BeAssignableToTypeOf(&LRUVictimFinder{}))

		vf, err = NewVictimFinder("")
		Expect(err).NotTo(HaveOccurred())
		Expect(vf).To(BeAssignableToTypeOf(&FixedVictimFinder{}))

		_, err = NewVictimFinder("random")
		Expect(err).To(MatchError(`unknown replacement policy "random"`))
	})
})
