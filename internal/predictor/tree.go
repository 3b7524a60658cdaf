package predictor

import (
	"math"
	"math/rand"
	"sort"
)

// 装袋决策树分类器：每棵树在自助采样上训练，分裂时随机
// 抽取 sqrt(特征数) 个候选特征，叶子保留类别概率分布。

// treeNode 决策树节点，probs非nil时为叶子
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	probs     map[int]float64
}

// decisionTree 基尼系数分裂的分类树
type decisionTree struct {
	root        *treeNode
	minLeaf     int
	maxFeatures int
	rng         *rand.Rand
}

// fit 训练决策树
func (t *decisionTree) fit(features [][]float64, labels []int) {
	indices := make([]int, len(labels))
	for i := range indices {
		indices[i] = i
	}
	t.root = t.grow(features, labels, indices)
}

// predictProba 返回样本落入叶子的类别概率分布
func (t *decisionTree) predictProba(sample []float64) map[int]float64 {
	node := t.root
	for node.probs == nil {
		if sample[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probs
}

// grow 递归生长；样本纯净或不足以分裂时生成叶子
func (t *decisionTree) grow(features [][]float64, labels []int, indices []int) *treeNode {
	counts := classCounts(labels, indices)
	if len(counts) == 1 || len(indices) < 2*t.minLeaf {
		return leafNode(counts, len(indices))
	}

	feature, threshold, ok := t.bestSplit(features, labels, indices)
	if !ok {
		return leafNode(counts, len(indices))
	}

	var left, right []int
	for _, idx := range indices {
		if features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(features, labels, left),
		right:     t.grow(features, labels, right),
	}
}

// bestSplit 在随机特征子集上寻找基尼增益最大的分裂点
func (t *decisionTree) bestSplit(features [][]float64, labels []int, indices []int) (int, float64, bool) {
	nFeatures := len(features[indices[0]])
	candidates := t.rng.Perm(nFeatures)[:min(t.maxFeatures, nFeatures)]

	bestGini := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	for _, feature := range candidates {
		values := make([]float64, 0, len(indices))
		for _, idx := range indices {
			values = append(values, features[idx][feature])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			threshold := (values[i] + values[i-1]) / 2

			leftCounts := make(map[int]int)
			rightCounts := make(map[int]int)
			leftTotal, rightTotal := 0, 0
			for _, idx := range indices {
				if features[idx][feature] <= threshold {
					leftCounts[labels[idx]]++
					leftTotal++
				} else {
					rightCounts[labels[idx]]++
					rightTotal++
				}
			}

			if leftTotal < t.minLeaf || rightTotal < t.minLeaf {
				continue
			}

			total := float64(leftTotal + rightTotal)
			weighted := float64(leftTotal)/total*gini(leftCounts, leftTotal) +
				float64(rightTotal)/total*gini(rightCounts, rightTotal)

			if weighted < bestGini {
				bestGini = weighted
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// gini 基尼不纯度。按类别升序累加：浮点加法顺序固定，
// 避免map遍历顺序让近似同分的分裂点选择不可复现
func gini(counts map[int]int, total int) float64 {
	classes := make([]int, 0, len(counts))
	for class := range counts {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	impurity := 1.0
	for _, class := range classes {
		p := float64(counts[class]) / float64(total)
		impurity -= p * p
	}
	return impurity
}

// classCounts 统计子集内各类别样本数
func classCounts(labels []int, indices []int) map[int]int {
	counts := make(map[int]int)
	for _, idx := range indices {
		counts[labels[idx]]++
	}
	return counts
}

// leafNode 按类别占比生成叶子
func leafNode(counts map[int]int, total int) *treeNode {
	probs := make(map[int]float64, len(counts))
	for class, count := range counts {
		probs[class] = float64(count) / float64(total)
	}
	return &treeNode{probs: probs}
}

// baggedClassifier 决策树装袋集成
type baggedClassifier struct {
	trees   []*decisionTree
	nTrees  int
	minLeaf int
	rng     *rand.Rand
}

// newBaggedClassifier 创建装袋分类器，种子固定以保证可复现
func newBaggedClassifier(nTrees, minLeaf int, seed int64) *baggedClassifier {
	return &baggedClassifier{
		nTrees:  nTrees,
		minLeaf: minLeaf,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// fit 自助采样训练全部子树
func (c *baggedClassifier) fit(features [][]float64, labels []int) {
	nSamples := len(labels)
	maxFeatures := int(math.Sqrt(float64(len(features[0]))))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	c.trees = make([]*decisionTree, 0, c.nTrees)
	for i := 0; i < c.nTrees; i++ {
		sampleFeatures := make([][]float64, nSamples)
		sampleLabels := make([]int, nSamples)
		for j := 0; j < nSamples; j++ {
			pick := c.rng.Intn(nSamples)
			sampleFeatures[j] = features[pick]
			sampleLabels[j] = labels[pick]
		}

		tree := &decisionTree{
			minLeaf:     c.minLeaf,
			maxFeatures: maxFeatures,
			rng:         c.rng,
		}
		tree.fit(sampleFeatures, sampleLabels)
		c.trees = append(c.trees, tree)
	}
}

// predictProba 平均各子树叶子的类别概率
func (c *baggedClassifier) predictProba(sample []float64) map[int]float64 {
	probs := make(map[int]float64)
	for _, tree := range c.trees {
		for class, p := range tree.predictProba(sample) {
			probs[class] += p
		}
	}
	for class := range probs {
		probs[class] /= float64(len(c.trees))
	}
	return probs
}
